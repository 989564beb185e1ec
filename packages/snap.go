package packages

import (
	"fmt"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
)

func (r Runner) InstallSnap(snap entity.Snap) error {
	internal.Log.Infof("Installing snap %s", snap.Name)
	cmd := fmt.Sprintf("snap install %s", snap.Name)
	if snap.Classic {
		cmd += " --classic"
	}

	if err := r.Mutate(marecmd.Input{Command: cmd}); err != nil {
		return fmt.Errorf("error installing snap %s: %w", snap.Name, err)
	}

	return nil
}
