package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/femnad/kur/entity"
)

func TestDispatchDisabledDocker(t *testing.T) {
	reporter, out := newReporter()
	toggles := entity.NewToggles(map[string]bool{"INSTALL_DOCKER": false, "INSTALL_GIT": true})
	d := NewDispatcher(toggles, reporter)

	var calls []string
	routine := func(name string) Routine {
		return func(context.Context) error {
			calls = append(calls, name)
			return nil
		}
	}
	if err := d.Register("INSTALL_DOCKER", "Docker", routine("docker")); err != nil {
		t.Fatal(err)
	}
	if err := d.Register("INSTALL_GIT", "Git", routine("git")); err != nil {
		t.Fatal(err)
	}

	ran, err := d.Dispatch(context.Background(), "INSTALL_DOCKER")
	if err != nil || ran {
		t.Fatalf("Dispatch(INSTALL_DOCKER) = %v, %v, want false, nil", ran, err)
	}
	ran, err = d.Dispatch(context.Background(), "INSTALL_GIT")
	if err != nil || !ran {
		t.Fatalf("Dispatch(INSTALL_GIT) = %v, %v, want true, nil", ran, err)
	}

	if len(calls) != 1 || calls[0] != "git" {
		t.Errorf("routines called = %v, want [git]", calls)
	}

	var dockerLines []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if strings.Contains(line, "Docker") {
			dockerLines = append(dockerLines, line)
		}
	}
	if len(dockerLines) != 1 || dockerLines[0] != "[SKIP] Docker is disabled" {
		t.Errorf("Docker lines = %q, want exactly one disabled line", dockerLines)
	}
}

func TestDispatchUnknownToggle(t *testing.T) {
	reporter, out := newReporter()
	d := NewDispatcher(entity.NewToggles(map[string]bool{"INSTALL_GIT": true}), reporter)

	_, err := d.Dispatch(context.Background(), "INSTALL_GIT")
	if !errors.Is(err, ErrUnknownToggle) {
		t.Errorf("Dispatch() error = %v, want %v", err, ErrUnknownToggle)
	}
	if out.Len() != 0 {
		t.Errorf("Dispatch() output = %q, want none", out.String())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reporter, _ := newReporter()
	d := NewDispatcher(entity.NewToggles(nil), reporter)
	noop := func(context.Context) error { return nil }

	if err := d.Register("INSTALL_GIT", "Git", noop); err != nil {
		t.Fatal(err)
	}
	if err := d.Register("INSTALL_GIT", "Git again", noop); err == nil {
		t.Errorf("Register() expected an error for a duplicate toggle")
	}
}
