package provision

import (
	"context"
	"fmt"
	"strings"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/packages"
	"github.com/femnad/kur/precheck/unless"
	"github.com/femnad/kur/release"
	"github.com/femnad/kur/remote"
	"github.com/femnad/kur/settings"
)

const (
	scriptExtension = ".sh"
)

type fetcher func(ctx context.Context, url, filename, dir string,
	user internal.EffectiveUser) (remote.CachedArtifact, error)

// Actions turns catalog targets into steps, holding every collaborator an install action
// may need.
type Actions struct {
	Apt          packages.Installer
	Config       entity.Config
	Fetch        fetcher
	InstallerDir string
	Prober       unless.Prober
	Resolver     *release.Resolver
	// RunAsUser runs commands on behalf of the effective user.
	RunAsUser func(marecmd.Input) error
	Runner    packages.Runner
	User      internal.EffectiveUser
}

func (a Actions) expand(s string) string {
	lookup := map[string]string{"home": a.User.Home, "user": a.User.Name}
	return a.User.ExpandUser(settings.Expand(s, lookup))
}

func (a Actions) runCmd(cmd string, asUser bool) error {
	input := marecmd.Input{Command: a.expand(cmd), Shell: true}
	if asUser {
		return a.RunAsUser(internal.AsUser(input, a.User.RunAs()))
	}

	return a.Runner.Mutate(input)
}

func (a Actions) fetchRelease(ctx context.Context, name string, src entity.ReleaseSource) (string, error) {
	asset := a.Resolver.Resolve(ctx, name, src)
	artifact, err := a.Fetch(ctx, asset.URL, asset.Filename, a.InstallerDir, a.User)
	if err != nil {
		return "", fmt.Errorf("error downloading %s: %w", asset, err)
	}

	return artifact.Path, nil
}

func (a Actions) installDeb(ctx context.Context, target entity.Target) error {
	path, err := a.fetchRelease(ctx, target.Name, *target.Deb)
	if err != nil {
		return err
	}

	return a.Apt.InstallFile(path)
}

func (a Actions) runScript(ctx context.Context, target entity.Target) error {
	script := target.Script
	filename := remote.URLFilename(script.URL)
	if !strings.HasSuffix(filename, scriptExtension) {
		filename = entity.Slug(target.Name) + scriptExtension
	}

	artifact, err := a.Fetch(ctx, script.URL, filename, a.InstallerDir, a.User)
	if err != nil {
		return fmt.Errorf("error downloading install script %s: %w", script.URL, err)
	}

	cmd := strings.TrimSpace(fmt.Sprintf("sh %s %s", artifact.Path, script.Args))
	return a.runCmd(cmd, target.AsUser)
}

func (a Actions) installFlatpak(target entity.Target) error {
	flatpakRemote, ok := a.Config.FlatpakRemote(target.Flatpak.Remote)
	if !ok {
		return fmt.Errorf("no flatpak remote definition found for %s", target.Flatpak.Remote)
	}

	return a.Runner.InstallFlatpak(*target.Flatpak, flatpakRemote)
}

func (a Actions) action(target entity.Target) func(context.Context) error {
	switch target.Kind() {
	case entity.KindApt:
		return func(context.Context) error {
			_, err := a.Apt.Install(target.Apt)
			return err
		}
	case entity.KindArchive:
		return func(ctx context.Context) error {
			return a.installArchive(ctx, target.Name, *target.Archive)
		}
	case entity.KindCmd:
		return func(context.Context) error {
			return a.runCmd(target.Cmd, target.AsUser)
		}
	case entity.KindDeb:
		return func(ctx context.Context) error {
			return a.installDeb(ctx, target)
		}
	case entity.KindFlatpak:
		return func(context.Context) error {
			return a.installFlatpak(target)
		}
	case entity.KindGit:
		return func(ctx context.Context) error {
			return cloneRepo(ctx, *target.Git, a.User)
		}
	case entity.KindScript:
		return func(ctx context.Context) error {
			return a.runScript(ctx, target)
		}
	case entity.KindSnap:
		return func(context.Context) error {
			return a.Runner.InstallSnap(*target.Snap)
		}
	default:
		return nil
	}
}

// withAfter runs the follow up commands of target once its action succeeded.
func (a Actions) withAfter(target entity.Target, action func(context.Context) error) func(context.Context) error {
	if action == nil || len(target.After) == 0 {
		return action
	}

	return func(ctx context.Context) error {
		if err := action(ctx); err != nil {
			return err
		}

		for _, cmd := range target.After {
			if err := a.runCmd(cmd, target.AsUser); err != nil {
				return fmt.Errorf("error running post install command of %s: %w", target.Name, err)
			}
		}

		return nil
	}
}

func (a Actions) Step(target entity.Target) Step {
	probe := target.Probe()
	step := Step{
		Action: a.withAfter(target, a.action(target)),
		Fatal:  target.IsFatal(),
		Name:   target.Name,
		Probe: func() bool {
			return a.Prober.ShouldSkip(probe)
		},
	}

	if target.Update != "" {
		step.Update = func(context.Context) error {
			return a.runCmd(target.Update, target.AsUser)
		}
	}

	return step
}
