package entity

import (
	"fmt"
	"path"
)

const (
	defaultComponents = "stable"
	KeyRingsDir       = "/etc/apt/keyrings"
	SourcesDir        = "/etc/apt/sources.list.d"
)

// AptRepo is a third party apt source, signed by a key stored under the key rings dir.
type AptRepo struct {
	Components   string `yaml:"components"`
	Distribution string `yaml:"distribution"`
	GPGKey       string `yaml:"gpg_key"`
	RepoName     string `yaml:"name"`
	Repo         string `yaml:"repo"`
	Toggle       string `yaml:"toggle"`
}

func (a AptRepo) Name() string {
	return a.RepoName
}

func (a AptRepo) GetComponents() string {
	if a.Components == "" {
		return defaultComponents
	}
	return a.Components
}

func (a AptRepo) KeyRingFile() string {
	return path.Join(KeyRingsDir, fmt.Sprintf("%s.gpg", a.RepoName))
}

func (a AptRepo) SourcesFile() string {
	return path.Join(SourcesDir, fmt.Sprintf("%s.list", a.RepoName))
}

// SourceLine renders the one-line-style apt source entry.
func (a AptRepo) SourceLine(architecture, distribution string) string {
	return fmt.Sprintf("deb [arch=%s signed-by=%s] %s %s %s\n", architecture, a.KeyRingFile(), a.Repo,
		distribution, a.GetComponents())
}
