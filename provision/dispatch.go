package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/status"
)

var (
	ErrUnknownToggle = errors.New("unknown toggle")
)

type Routine func(ctx context.Context) error

type registration struct {
	name    string
	routine Routine
}

// Dispatcher is the only place toggles are consulted. Routines never read toggles themselves.
type Dispatcher struct {
	registry map[string]registration
	reporter *status.Reporter
	toggles  entity.Toggles
}

func NewDispatcher(toggles entity.Toggles, reporter *status.Reporter) *Dispatcher {
	return &Dispatcher{registry: map[string]registration{}, reporter: reporter, toggles: toggles}
}

func (d *Dispatcher) Register(key, name string, routine Routine) error {
	if _, ok := d.registry[key]; ok {
		return fmt.Errorf("toggle %s is already registered", key)
	}

	d.registry[key] = registration{name: name, routine: routine}
	return nil
}

// Dispatch invokes the routine registered for key if its toggle is on, and reports whether it
// did. A disabled toggle yields a single status line and nothing else.
func (d *Dispatcher) Dispatch(ctx context.Context, key string) (bool, error) {
	reg, ok := d.registry[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownToggle, key)
	}

	if !d.toggles.Enabled(key) {
		d.reporter.Disabled("%s is disabled", reg.name)
		return false, nil
	}

	return true, reg.routine(ctx)
}
