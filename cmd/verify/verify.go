// Package verify checks a host against the catalog without changing anything on it.
package verify

import (
	"fmt"

	"github.com/femnad/kur/common"
	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/font"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/packages"
	"github.com/femnad/kur/precheck/unless"
	"github.com/femnad/kur/precheck/when"
	"github.com/femnad/kur/settings"
	"github.com/femnad/kur/status"
)

type Report struct {
	Disabled int
	Missing  []string
	Present  int
}

func (r Report) OK() bool {
	return len(r.Missing) == 0
}

func (r Report) String() string {
	return fmt.Sprintf("%d present, %d missing, %d disabled", r.Present, len(r.Missing), r.Disabled)
}

// Verifier runs only the presence probes of the catalog.
type Verifier struct {
	Config     entity.Config
	FileExists func(string) bool
	// MissingPackages returns the subset of its argument that is not installed.
	MissingPackages func([]string) ([]string, error)
	Prober          unless.Prober
	Reporter        *status.Reporter
	ShouldRun       func(when.Whenable) bool
}

func New(config entity.Config, reporter *status.Reporter, user internal.EffectiveUser) Verifier {
	expand := func(s string) string {
		lookup := map[string]string{"home": user.Home, "user": user.Name}
		return user.ExpandUser(settings.Expand(s, lookup))
	}

	return Verifier{
		Config:          config,
		FileExists:      common.FileExists,
		MissingPackages: packages.NewInstaller(packages.Apt{}).Missing,
		Prober:          unless.NewProber(expand),
		Reporter:        reporter,
		ShouldRun:       when.ShouldRun,
	}
}

func (v Verifier) check(report *Report, name string, present bool) {
	if present {
		v.Reporter.Success("%s is installed", name)
		report.Present++
		return
	}

	v.Reporter.Error("%s is missing", name)
	report.Missing = append(report.Missing, name)
}

func (v Verifier) enabled(report *Report, key, name string) bool {
	if v.Config.Toggles.Enabled(key) {
		return true
	}

	v.Reporter.Disabled("%s is disabled", name)
	report.Disabled++
	return false
}

func (v Verifier) verifyPackages(report *Report) error {
	missing, err := v.MissingPackages(v.Config.Packages)
	if err != nil {
		return fmt.Errorf("error listing installed packages: %w", err)
	}

	missingSet := make(map[string]bool, len(missing))
	for _, pkg := range missing {
		missingSet[pkg] = true
	}
	for _, pkg := range v.Config.Packages {
		v.check(report, fmt.Sprintf("package %s", pkg), !missingSet[pkg])
	}

	return nil
}

func (v Verifier) verifyFonts(report *Report) {
	if len(v.Config.Fonts) == 0 || !v.enabled(report, entity.FontToggle, "Fonts") {
		return
	}

	root := v.Config.Settings.GetFontRoot()
	for _, spec := range v.Config.Fonts {
		v.check(report, fmt.Sprintf("font %s", spec.Name), len(font.InstalledClasses(root, spec)) > 0)
	}
}

// Verify reports the state of every enabled repo, package, target and font. Only a failure
// to run the checks themselves is returned.
func (v Verifier) Verify() (Report, error) {
	var report Report

	for _, repo := range v.Config.Repos {
		if !v.Config.Toggles.Enabled(repo.Toggle) {
			internal.Log.Debugf("Not checking repo %s as %s is disabled", repo.Name(), repo.Toggle)
			continue
		}
		v.check(&report, fmt.Sprintf("repo %s", repo.Name()),
			v.FileExists(repo.SourcesFile()) && v.FileExists(repo.KeyRingFile()))
	}

	if err := v.verifyPackages(&report); err != nil {
		return report, err
	}

	for _, target := range v.Config.Targets {
		if !v.enabled(&report, target.Toggle, target.Name) {
			continue
		}
		if !v.ShouldRun(target) {
			v.Reporter.Info("%s does not apply to this host", target.Name)
			continue
		}
		v.check(&report, target.Name, v.Prober.ShouldSkip(target.Probe()))
	}

	v.verifyFonts(&report)
	return report, nil
}
