// Package provision decides and performs the installations of a catalog on the local host.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/font"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/packages"
	"github.com/femnad/kur/precheck"
	"github.com/femnad/kur/precheck/unless"
	"github.com/femnad/kur/precheck/when"
	"github.com/femnad/kur/release"
	"github.com/femnad/kur/remote"
	"github.com/femnad/kur/status"
)

var (
	errNotDebian = errors.New("host is not a Debian derivative")
)

type Provisioner struct {
	Apt packages.Installer
	// Confirm asks for permission to proceed, nil meaning permission is implied.
	Confirm    func() (bool, error)
	Config     entity.Config
	Fonts      font.Installer
	IsDebian   func() (bool, error)
	Repos      packages.RepoInstaller
	Reporter   *status.Reporter
	Steps      func(entity.Target) Step
	dispatcher *Dispatcher
	disabled   int
	outcomes   map[Outcome]int
}

// New wires the collaborators for a run on behalf of user.
func New(config entity.Config, reporter *status.Reporter, user internal.EffectiveUser) (*Provisioner, error) {
	s := config.Settings
	client := remote.NewClient(s.GetConnectTimeout())

	owner, err := font.LookupOwner(s.GetFontOwner())
	if err != nil {
		return nil, err
	}

	installerDir := user.ExpandUser(s.GetInstallerDir())
	apt := packages.NewInstaller(packages.Apt{})
	actions := Actions{
		Apt:          apt,
		Config:       config,
		Fetch:        client.FetchIfAbsent,
		InstallerDir: installerDir,
		Prober:       unless.NewProber(nil),
		Resolver:     release.NewDefaultResolver(s, client, reporter),
		RunAsUser:    marecmd.RunErrOnly,
		Runner:       packages.DefaultRunner(),
		User:         user,
	}
	actions.Prober.Expand = actions.expand

	return &Provisioner{
		Apt:      apt,
		Config:   config,
		Fonts:    font.NewInstaller(client, reporter, s.GetFontRoot(), installerDir, owner, user),
		IsDebian: precheck.IsDebianFamily,
		Repos:    packages.NewRepoInstaller(client),
		Reporter: reporter,
		Steps:    actions.Step,
	}, nil
}

func (p *Provisioner) record(outcome Outcome) {
	p.outcomes[outcome]++
}

func (p *Provisioner) targetRoutine(target entity.Target) Routine {
	return func(ctx context.Context) error {
		if !when.ShouldRun(target) {
			p.Reporter.Info("%s does not apply to this host", target.Name)
			p.record(Skipped)
			return nil
		}

		outcome, err := Ensure(ctx, p.Steps(target), p.Reporter)
		p.record(outcome)
		return err
	}
}

func (p *Provisioner) fontRoutine(ctx context.Context) error {
	result, err := p.Fonts.InstallAll(ctx, p.Config.Fonts)
	p.outcomes[Installed] += result.Installed
	p.outcomes[AlreadyPresent] += result.Present
	p.outcomes[Failed] += result.Failed
	return err
}

func (p *Provisioner) register() error {
	p.dispatcher = NewDispatcher(p.Config.Toggles, p.Reporter)
	p.outcomes = map[Outcome]int{}
	p.disabled = 0

	for _, target := range p.Config.Targets {
		if err := p.dispatcher.Register(target.Toggle, target.Name, p.targetRoutine(target)); err != nil {
			return err
		}
	}

	if len(p.Config.Fonts) > 0 {
		return p.dispatcher.Register(entity.FontToggle, "Fonts", p.fontRoutine)
	}

	return nil
}

func (p *Provisioner) dispatch(ctx context.Context, key string) error {
	ran, err := p.dispatcher.Dispatch(ctx, key)
	if !ran && err == nil {
		p.disabled++
	}
	return err
}

func (p *Provisioner) preflight() (bool, error) {
	debian, err := p.IsDebian()
	if err != nil {
		return false, fmt.Errorf("error determining OS: %w", err)
	}
	if !debian {
		return false, errNotDebian
	}

	if p.Confirm == nil {
		return true, nil
	}

	return p.Confirm()
}

func (p *Provisioner) ensureRepos(ctx context.Context) error {
	for _, repo := range p.Config.Repos {
		if repo.Toggle != "" && !p.Config.Toggles.Enabled(repo.Toggle) {
			internal.Log.Debugf("Skipping apt repository %s as %s is disabled", repo.Name(), repo.Toggle)
			continue
		}

		changed, err := p.Repos.EnsureRepo(ctx, repo)
		if err != nil {
			p.Reporter.Error("Failed to add apt repository %s: %v", repo.Name(), err)
			return err
		}
		if changed {
			p.Reporter.Success("Added apt repository %s", repo.Name())
		}
	}

	return nil
}

func (p *Provisioner) installBasePackages() error {
	if err := p.Apt.Update(); err != nil {
		p.Reporter.Error("Failed to update package lists: %v", err)
		return err
	}

	installed, err := p.Apt.Install(p.Config.Packages)
	if err != nil {
		p.Reporter.Error("Failed to install base packages: %v", err)
		return err
	}

	if len(installed) > 0 {
		p.Reporter.Success("Installed base packages: %s", strings.Join(installed, " "))
	} else {
		p.Reporter.Warning("Base packages are already installed")
	}

	return nil
}

func (p *Provisioner) applyTargets(ctx context.Context, bootstrap bool) error {
	for _, target := range p.Config.Targets {
		if target.Bootstrap != bootstrap {
			continue
		}

		if err := p.dispatch(ctx, target.Toggle); err != nil {
			return err
		}
	}

	return nil
}

func (p *Provisioner) finalize() error {
	if err := p.Apt.Upgrade(); err != nil {
		p.Reporter.Error("Failed to upgrade packages: %v", err)
		return err
	}

	if err := p.Apt.Autoremove(); err != nil {
		p.Reporter.Error("Failed to remove unused packages: %v", err)
		return err
	}

	p.Reporter.Success("System is up to date")
	return nil
}

func (p *Provisioner) summarize() {
	p.Reporter.Info("%d installed, %d already present, %d failed, %d disabled, %d skipped",
		p.outcomes[Installed], p.outcomes[AlreadyPresent], p.outcomes[Failed], p.disabled, p.outcomes[Skipped])
}

// Apply runs every phase in order, stopping at the first fatal error.
func (p *Provisioner) Apply(ctx context.Context) error {
	proceed, err := p.preflight()
	if err != nil {
		return err
	}
	if !proceed {
		p.Reporter.Info("Nothing to do")
		return nil
	}

	if err = p.register(); err != nil {
		return err
	}

	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{name: "apt repositories", run: p.ensureRepos},
		{name: "base packages", run: func(context.Context) error { return p.installBasePackages() }},
		{name: "package managers", run: func(ctx context.Context) error { return p.applyTargets(ctx, true) }},
		{name: "applications", run: func(ctx context.Context) error { return p.applyTargets(ctx, false) }},
		{name: "fonts", run: p.applyFonts},
		{name: "system upgrade", run: func(context.Context) error { return p.finalize() }},
	}

	for _, phase := range phases {
		if err = ctx.Err(); err != nil {
			return err
		}

		internal.Log.Noticef("Running phase: %s", phase.name)
		if err = phase.run(ctx); err != nil {
			p.summarize()
			return fmt.Errorf("error running phase %s: %w", phase.name, err)
		}
	}

	p.summarize()
	return nil
}

func (p *Provisioner) applyFonts(ctx context.Context) error {
	if len(p.Config.Fonts) == 0 {
		return nil
	}
	return p.dispatch(ctx, entity.FontToggle)
}
