package provision

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/packages"
	"github.com/femnad/kur/precheck/unless"
	"github.com/femnad/kur/release"
	"github.com/femnad/kur/remote"
)

type actionRecorder struct {
	asUser    []marecmd.Input
	fetched   []string
	mutations []string
}

func newTestActions(rec *actionRecorder) Actions {
	reporter, _ := newReporter()
	user := internal.EffectiveUser{Name: "alice", Uid: 1000, Gid: 1000, Home: "/home/alice"}
	runner := packages.Runner{
		Mutate: func(in marecmd.Input) error {
			rec.mutations = append(rec.mutations, in.Command)
			return nil
		},
		Query: func(marecmd.Input) (marecmd.Output, error) {
			return marecmd.Output{}, nil
		},
	}

	a := Actions{
		Apt: packages.Installer{Pkg: packages.Apt{}, Runner: runner},
		Fetch: func(_ context.Context, url, filename, dir string,
			_ internal.EffectiveUser) (remote.CachedArtifact, error) {
			rec.fetched = append(rec.fetched, url)
			return remote.CachedArtifact{Path: filepath.Join(dir, filename)}, nil
		},
		InstallerDir: "/home/alice/Downloads/Installers",
		Prober: unless.Prober{
			Which: func(cmd string) (string, error) {
				if cmd == "docker" {
					return "/usr/bin/docker", nil
				}
				return "", errors.New("not found")
			},
		},
		Resolver: release.NewResolver(remote.NewClient(remote.DefaultConnectTimeout), reporter),
		RunAsUser: func(in marecmd.Input) error {
			rec.asUser = append(rec.asUser, in)
			return nil
		},
		Runner: runner,
		User:   user,
	}
	a.Prober.Expand = a.expand

	return a
}

func TestStepCommandWithFollowUps(t *testing.T) {
	rec := &actionRecorder{}
	a := newTestActions(rec)
	target := entity.Target{
		Name:   "Docker",
		Cmd:    "sh ${home}/Downloads/Installers/get-docker.sh",
		After:  []string{"usermod -aG docker ${user}"},
		Unless: unless.Unless{Command: "docker"},
	}

	step := a.Step(target)
	if !step.Probe() {
		t.Errorf("Probe() = false, want true as docker is on the path")
	}
	if step.Fatal {
		t.Errorf("command steps should not be fatal")
	}

	if err := step.Action(context.Background()); err != nil {
		t.Fatalf("Action() error = %v", err)
	}

	want := []string{"sh /home/alice/Downloads/Installers/get-docker.sh", "usermod -aG docker alice"}
	if !reflect.DeepEqual(rec.mutations, want) {
		t.Errorf("Action() ran %v, want %v", rec.mutations, want)
	}
}

func TestStepScriptAsUser(t *testing.T) {
	rec := &actionRecorder{}
	a := newTestActions(rec)
	target := entity.Target{
		Name:   "Rust",
		AsUser: true,
		Script: &entity.Script{URL: "https://sh.rustup.rs", Args: "-y --no-modify-path"},
		Unless: unless.Unless{Stat: "~/.cargo/bin/rustup"},
		Update: "~/.cargo/bin/rustup update",
	}

	step := a.Step(target)
	if err := step.Action(context.Background()); err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	if err := step.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !reflect.DeepEqual(rec.fetched, []string{"https://sh.rustup.rs"}) {
		t.Errorf("fetched %v", rec.fetched)
	}
	if len(rec.mutations) != 0 {
		t.Errorf("user scripts should not run with elevated privileges: %v", rec.mutations)
	}

	var got []string
	for _, in := range rec.asUser {
		got = append(got, in.Command)
	}
	want := []string{
		"sh /home/alice/Downloads/Installers/rust.sh -y --no-modify-path",
		"/home/alice/.cargo/bin/rustup update",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ran as user %v, want %v", got, want)
	}
}

func TestStepDebUsesPinnedFallback(t *testing.T) {
	rec := &actionRecorder{}
	a := newTestActions(rec)
	target := entity.Target{
		Name:   "Bat",
		Unless: unless.Unless{Command: "bat"},
		Deb: &entity.ReleaseSource{
			Feed:     "http://127.0.0.1:1/feed",
			Kind:     entity.FeedText,
			Match:    "amd64.deb",
			Fallback: "https://github.com/sharkdp/bat/releases/download/v0.24.0/bat_0.24.0_amd64.deb",
		},
	}

	step := a.Step(target)
	if step.Probe() {
		t.Errorf("Probe() = true, want false")
	}
	if !step.Fatal {
		t.Errorf("deb steps should be fatal")
	}
	if err := step.Action(context.Background()); err != nil {
		t.Fatalf("Action() error = %v", err)
	}

	if !reflect.DeepEqual(rec.fetched, []string{target.Deb.Fallback}) {
		t.Errorf("fetched %v, want the pinned fallback", rec.fetched)
	}
	want := []string{"apt-get install -y /home/alice/Downloads/Installers/bat_0.24.0_amd64.deb"}
	if !reflect.DeepEqual(rec.mutations, want) {
		t.Errorf("Action() ran %v, want %v", rec.mutations, want)
	}
}
