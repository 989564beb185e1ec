package entity

import (
	"github.com/femnad/kur/precheck/unless"
)

const (
	KindApt     = "apt"
	KindArchive = "archive"
	KindCmd     = "cmd"
	KindDeb     = "deb"
	KindFlatpak = "flatpak"
	KindGit     = "git"
	KindScript  = "script"
	KindSnap    = "snap"
)

// Target is one installable unit of the catalog. Exactly one action field is set.
type Target struct {
	After     []string        `yaml:"after"`
	Apt       []string        `yaml:"apt"`
	Archive   *ArchiveRelease `yaml:"archive"`
	AsUser    bool            `yaml:"as_user"`
	Bootstrap bool            `yaml:"bootstrap"`
	Cmd       string          `yaml:"cmd"`
	Deb       *ReleaseSource  `yaml:"deb"`
	Fatal     *bool           `yaml:"fatal"`
	Flatpak   *FlatpakPkg     `yaml:"flatpak"`
	Git       *GitRepo        `yaml:"git"`
	Name      string          `yaml:"name"`
	Script    *Script         `yaml:"script"`
	Snap      *Snap           `yaml:"snap"`
	Toggle    string          `yaml:"toggle"`
	Unless    unless.Unless   `yaml:"unless"`
	Update    string          `yaml:"update"`
	When      string          `yaml:"when"`
}

func (t Target) kinds() []string {
	var kinds []string
	if len(t.Apt) > 0 {
		kinds = append(kinds, KindApt)
	}
	if t.Archive != nil {
		kinds = append(kinds, KindArchive)
	}
	if t.Cmd != "" {
		kinds = append(kinds, KindCmd)
	}
	if t.Deb != nil {
		kinds = append(kinds, KindDeb)
	}
	if t.Flatpak != nil {
		kinds = append(kinds, KindFlatpak)
	}
	if t.Git != nil {
		kinds = append(kinds, KindGit)
	}
	if t.Script != nil {
		kinds = append(kinds, KindScript)
	}
	if t.Snap != nil {
		kinds = append(kinds, KindSnap)
	}
	return kinds
}

// Kind returns the action kind, empty if none or more than one action is set.
func (t Target) Kind() string {
	kinds := t.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// IsFatal reports whether a failing action aborts the whole run. Package manager mutations
// are fatal unless the catalog says otherwise.
func (t Target) IsFatal() bool {
	if t.Fatal != nil {
		return *t.Fatal
	}

	switch t.Kind() {
	case KindApt, KindDeb:
		return true
	default:
		return false
	}
}

// Probe returns the presence check, deriving one from the action when none is configured.
func (t Target) Probe() unless.Unless {
	if !t.Unless.IsZero() {
		return t.Unless
	}

	switch t.Kind() {
	case KindApt:
		return unless.Unless{Package: t.Apt}
	case KindFlatpak:
		return unless.Unless{Flatpak: t.Flatpak.App}
	case KindGit:
		return unless.Unless{Dir: t.Git.Dir}
	case KindSnap:
		return unless.Unless{Snap: t.Snap.Name}
	default:
		return unless.Unless{}
	}
}

// Release returns the release source for release backed actions.
func (t Target) Release() (ReleaseSource, bool) {
	switch {
	case t.Deb != nil:
		return *t.Deb, true
	case t.Archive != nil:
		return t.Archive.ReleaseSource, true
	default:
		return ReleaseSource{}, false
	}
}

func (t Target) RunWhen() string {
	return t.When
}

func (t Target) String() string {
	return t.Name
}
