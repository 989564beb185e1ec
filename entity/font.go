package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	FontToggle = "INSTALL_FONTS"
)

var (
	lower = cases.Lower(language.Und)
)

type FontSpec struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Slug lower cases name and replaces spaces with hyphens.
func Slug(name string) string {
	return strings.ReplaceAll(lower.String(strings.TrimSpace(name)), " ", "-")
}

func (f FontSpec) Slug() string {
	return Slug(f.Name)
}

func (f FontSpec) String() string {
	return f.Name
}
