package entity

import "fmt"

const (
	FeedGithub = "github"
	FeedPage   = "page"
	FeedText   = "text"
)

var (
	feedKinds = []string{FeedGithub, FeedPage, FeedText}
)

// ReleaseSource locates the latest artifact of an externally hosted release. Fallback is a
// known good URL used whenever the feed cannot be queried or has no matching asset.
type ReleaseSource struct {
	Feed     string `yaml:"feed"`
	Fallback string `yaml:"fallback"`
	Kind     string `yaml:"type"`
	Match    string `yaml:"match"`
}

func (r ReleaseSource) GetKind() string {
	if r.Kind == "" {
		return FeedGithub
	}
	return r.Kind
}

func (r ReleaseSource) String() string {
	return fmt.Sprintf("%s:%s", r.GetKind(), r.Feed)
}

// ArchiveRelease is a release tarball unpacked under the opt dir with executables linked
// into the link dir.
type ArchiveRelease struct {
	ReleaseSource `yaml:",inline"`
	Link          []string `yaml:"link"`
	Target        string   `yaml:"target"`
}

type Script struct {
	Args string `yaml:"args"`
	URL  string `yaml:"url"`
}

type GitRepo struct {
	Dir  string `yaml:"dir"`
	URL  string `yaml:"url"`
	Full bool   `yaml:"full"`
}
