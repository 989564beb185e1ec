package packages

import (
	"fmt"
	"strings"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
)

// EnsureFlatpakRemote adds remote unless it is already configured.
func (r Runner) EnsureFlatpakRemote(remote entity.FlatpakRemote) error {
	out, err := r.Query(marecmd.Input{Command: "flatpak remotes --columns=name"})
	if err == nil && out.Code == 0 {
		for _, name := range strings.Fields(out.Stdout) {
			if name == remote.Name {
				return nil
			}
		}
	}

	internal.Log.Debugf("Adding flatpak remote %s", remote.Name)
	cmd := fmt.Sprintf("flatpak remote-add --if-not-exists %s %s", remote.Name, remote.Url)
	if err = r.Mutate(marecmd.Input{Command: cmd}); err != nil {
		return fmt.Errorf("error adding flatpak remote %s with URL %s: %w", remote.Name, remote.Url, err)
	}

	return nil
}

func (r Runner) InstallFlatpak(pkg entity.FlatpakPkg, remote entity.FlatpakRemote) error {
	if err := r.EnsureFlatpakRemote(remote); err != nil {
		return err
	}

	internal.Log.Infof("Installing flatpak package %s", pkg.App)
	cmd := fmt.Sprintf("flatpak install --noninteractive -y %s %s", remote.Name, pkg.App)
	if err := r.Mutate(marecmd.Input{Command: cmd}); err != nil {
		return fmt.Errorf("error installing flatpak %s: %w", pkg.App, err)
	}

	return nil
}
