package remote

import (
	"net/url"
	"path"
	"strings"

	"github.com/femnad/kur/internal"
)

const (
	syntheticExtension = ".download"
)

// ResponseMeta is what a download response reveals about the name of its payload.
type ResponseMeta struct {
	ContentDisposition string
	FinalURL           string
}

// URLFilename returns the last path segment of rawURL without query or fragment.
func URLFilename(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		p = parsed.Path
	} else {
		p, _, _ = strings.Cut(p, "?")
		p, _, _ = strings.Cut(p, "#")
	}

	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// Recognized reports whether filename is a bare name with a known artifact extension.
func Recognized(filename string) bool {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return false
	}
	return internal.ArtifactExtension(filename) != ""
}

// SyntheticFilename builds a name for artifacts whose URLs do not reveal one, taking the
// extension from fallbackURL if it has a recognized one.
func SyntheticFilename(stem, fallbackURL string) string {
	ext := internal.ArtifactExtension(URLFilename(fallbackURL))
	if ext == "" {
		ext = syntheticExtension
	}
	return stem + ext
}

// DeriveFilename picks the attachment header name, then the final URL's basename, whichever
// is recognized first. The synthetic name is returned otherwise.
func DeriveFilename(meta ResponseMeta, synthetic string) string {
	candidates := []string{
		path.Base(meta.ContentDisposition),
		URLFilename(meta.FinalURL),
	}

	for _, candidate := range candidates {
		if Recognized(candidate) {
			return candidate
		}
	}

	return synthetic
}
