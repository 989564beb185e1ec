package provision

import (
	"context"
	"fmt"

	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/status"
)

// Step is the executable form of a catalog target.
type Step struct {
	Action func(ctx context.Context) error
	Fatal  bool
	Name   string
	// Probe reports presence. It must not have side effects.
	Probe func() bool
	// Update runs on best effort basis when the target is already present.
	Update func(ctx context.Context) error
}

// Ensure runs the action of step only if its probe reports the target as absent. A failing
// action is returned only for fatal steps.
func Ensure(ctx context.Context, step Step, reporter *status.Reporter) (Outcome, error) {
	if step.Probe != nil && step.Probe() {
		reporter.Warning("%s is already installed", step.Name)

		if step.Update != nil {
			internal.Log.Debugf("Updating %s", step.Name)
			if err := step.Update(ctx); err != nil {
				reporter.Error("Failed to update %s: %v", step.Name, err)
			}
		}

		return AlreadyPresent, nil
	}

	if step.Action == nil {
		err := fmt.Errorf("no install action for %s", step.Name)
		reporter.Error("Failed to install %s: %v", step.Name, err)
		return Failed, err
	}

	internal.Log.Noticef("Installing %s", step.Name)
	if err := step.Action(ctx); err != nil {
		reporter.Error("Failed to install %s: %v", step.Name, err)
		if step.Fatal {
			return Failed, fmt.Errorf("error installing %s: %w", step.Name, err)
		}
		return Failed, nil
	}

	reporter.Success("Installed %s", step.Name)
	return Installed, nil
}
