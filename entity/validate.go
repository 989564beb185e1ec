package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var (
	ErrDuplicateToggle = errors.New("duplicate toggle")
	ErrInvalidFont     = errors.New("invalid font")
	ErrInvalidRelease  = errors.New("invalid release source")
	ErrInvalidRepo     = errors.New("invalid apt repository")
	ErrInvalidTarget   = errors.New("invalid target")
	ErrUndefinedToggle = errors.New("undefined toggle")
)

func validateRelease(name string, src ReleaseSource) error {
	if !slices.Contains(feedKinds, src.GetKind()) {
		return fmt.Errorf("%w: %s has unknown feed type %s, expected one of %s", ErrInvalidRelease, name,
			src.GetKind(), strings.Join(feedKinds, ", "))
	}
	if src.Feed == "" {
		return fmt.Errorf("%w: %s has no feed", ErrInvalidRelease, name)
	}
	if src.Match == "" {
		return fmt.Errorf("%w: %s has no match pattern", ErrInvalidRelease, name)
	}
	if src.Fallback == "" {
		return fmt.Errorf("%w: %s has no pinned fallback", ErrInvalidRelease, name)
	}
	return nil
}

func (c Config) validateTarget(target Target, seen mapset.Set[string]) []error {
	var errs []error

	if target.Name == "" {
		errs = append(errs, fmt.Errorf("%w: target with toggle %q has no name", ErrInvalidTarget, target.Toggle))
	}

	switch {
	case target.Toggle == "":
		errs = append(errs, fmt.Errorf("%w: %s has no toggle", ErrInvalidTarget, target.Name))
	case !c.Toggles.Known(target.Toggle):
		errs = append(errs, fmt.Errorf("%w: %s used by %s", ErrUndefinedToggle, target.Toggle, target.Name))
	case seen.Contains(target.Toggle):
		errs = append(errs, fmt.Errorf("%w: %s used by %s", ErrDuplicateToggle, target.Toggle, target.Name))
	default:
		seen.Add(target.Toggle)
	}

	kinds := target.kinds()
	if len(kinds) != 1 {
		errs = append(errs, fmt.Errorf("%w: %s needs exactly one action, got %d", ErrInvalidTarget, target.Name,
			len(kinds)))
		return errs
	}

	if target.Probe().IsZero() {
		errs = append(errs, fmt.Errorf("%w: %s has no presence probe", ErrInvalidTarget, target.Name))
	}

	if src, ok := target.Release(); ok {
		if err := validateRelease(target.Name, src); err != nil {
			errs = append(errs, err)
		}
	}

	if target.Flatpak != nil {
		if _, ok := c.FlatpakRemote(target.Flatpak.Remote); !ok {
			errs = append(errs, fmt.Errorf("%w: %s refers to unknown flatpak remote %q", ErrInvalidTarget,
				target.Name, target.Flatpak.Remote))
		}
	}

	if target.Script != nil && target.Script.URL == "" {
		errs = append(errs, fmt.Errorf("%w: %s has no script URL", ErrInvalidTarget, target.Name))
	}

	if target.Git != nil && (target.Git.URL == "" || target.Git.Dir == "") {
		errs = append(errs, fmt.Errorf("%w: %s needs both a git URL and a directory", ErrInvalidTarget,
			target.Name))
	}

	return errs
}

func (c Config) validateRepo(repo AptRepo) error {
	if repo.RepoName == "" || repo.Repo == "" || repo.GPGKey == "" {
		return fmt.Errorf("%w: %q needs a name, a repo URL and a key URL", ErrInvalidRepo, repo.RepoName)
	}
	if repo.Toggle != "" && !c.Toggles.Known(repo.Toggle) {
		return fmt.Errorf("%w: %s used by repository %s", ErrUndefinedToggle, repo.Toggle, repo.RepoName)
	}
	return nil
}

func (c Config) validateFonts() []error {
	if len(c.Fonts) == 0 {
		return nil
	}

	var errs []error
	if !c.Toggles.Known(FontToggle) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrUndefinedToggle, FontToggle))
	}

	slugs := mapset.NewThreadUnsafeSet[string]()
	for _, font := range c.Fonts {
		slug := font.Slug()
		if slug == "" || font.URL == "" {
			errs = append(errs, fmt.Errorf("%w: %q needs a name and a URL", ErrInvalidFont, font.Name))
			continue
		}
		if !slugs.Add(slug) {
			errs = append(errs, fmt.Errorf("%w: slug %s is used more than once", ErrInvalidFont, slug))
		}
	}

	return errs
}

// Validate reports every inconsistency in the catalog at once.
func (c Config) Validate() error {
	var errs []error

	for _, repo := range c.Repos {
		if err := c.validateRepo(repo); err != nil {
			errs = append(errs, err)
		}
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, target := range c.Targets {
		errs = append(errs, c.validateTarget(target, seen)...)
	}

	errs = append(errs, c.validateFonts()...)

	return errors.Join(errs...)
}
