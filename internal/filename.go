package internal

import "strings"

// KnownExtensions lists artifact suffixes, longest compound suffixes first.
var KnownExtensions = []string{
	".tar.bz2",
	".tar.gz",
	".tar.xz",
	".tar.zst",
	".AppImage",
	".7z",
	".deb",
	".otf",
	".sh",
	".tbz",
	".tgz",
	".ttc",
	".ttf",
	".txz",
	".zip",
}

// ArtifactExtension returns the recognized extension of filename, or an empty string.
func ArtifactExtension(filename string) string {
	lower := strings.ToLower(filename)
	for _, ext := range KnownExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) && len(filename) > len(ext) {
			return filename[len(filename)-len(ext):]
		}
	}
	return ""
}
