package packages

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/internal"
)

type PkgManager interface {
	ListInstalledCmd(pkgs []string) string
	ParseInstalled(out string) mapset.Set[string]
	PkgEnv() map[string]string
	PkgExec() string
}

// Runner separates read-only queries from privileged mutations so both can be replaced in
// tests.
type Runner struct {
	Mutate func(marecmd.Input) error
	Query  func(marecmd.Input) (marecmd.Output, error)
}

func DefaultRunner() Runner {
	return Runner{Mutate: internal.MaybeRunWithSudo, Query: internal.Run}
}

type Installer struct {
	Pkg PkgManager
	Runner
}

func NewInstaller(pkg PkgManager) Installer {
	return Installer{Pkg: pkg, Runner: DefaultRunner()}
}

func setToSlice[T comparable](set mapset.Set[T]) []T {
	var items []T
	set.Each(func(t T) bool {
		items = append(items, t)
		return false
	})

	return items
}

func (i Installer) run(args ...string) error {
	cmd := append([]string{i.Pkg.PkgExec()}, args...)
	return i.Mutate(marecmd.Input{Command: strings.Join(cmd, " "), Env: i.Pkg.PkgEnv()})
}

func (i Installer) installedPackages(pkgs []string) (mapset.Set[string], error) {
	// Unknown packages make the query exit non-zero while known ones are still listed.
	out, err := i.Query(marecmd.Input{Command: i.Pkg.ListInstalledCmd(pkgs)})
	if err != nil {
		return nil, fmt.Errorf("error listing installed packages: %v", err)
	}

	return i.Pkg.ParseInstalled(out.Stdout), nil
}

// Missing returns the sorted subset of desired that is not installed.
func (i Installer) Missing(desired []string) ([]string, error) {
	if len(desired) == 0 {
		return nil, nil
	}

	available, err := i.installedPackages(desired)
	if err != nil {
		return nil, err
	}

	missing := setToSlice(internal.SetFromList(desired).Difference(available))
	sort.Strings(missing)
	return missing, nil
}

// Install installs the missing packages among desired in one batch and returns them.
func (i Installer) Install(desired []string) ([]string, error) {
	missing, err := i.Missing(desired)
	if err != nil {
		return nil, err
	}

	if len(missing) == 0 {
		return nil, nil
	}

	internal.Log.Infof("Packages to install: %s", strings.Join(missing, " "))
	args := append([]string{"install", "-y"}, missing...)
	return missing, i.run(args...)
}

// InstallFile installs a local package file, resolving its dependencies.
func (i Installer) InstallFile(path string) error {
	if !strings.Contains(path, "/") {
		path = "./" + path
	}
	return i.run("install", "-y", path)
}

func (i Installer) Update() error {
	return i.run("update")
}

func (i Installer) Upgrade() error {
	return i.run("upgrade", "-y")
}

func (i Installer) Autoremove() error {
	return i.run("autoremove", "-y")
}
