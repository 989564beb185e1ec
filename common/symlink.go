package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/femnad/kur/internal"
)

const (
	dirMode = 0o755
)

var ErrNotSymlink = errors.New("existing file is not a symlink")

// Link points name at target, replacing a symlink pointing elsewhere. Regular files at name are
// left alone. It reports whether the link was created or changed.
func Link(name, target string) (bool, error) {
	if name == "" || target == "" {
		return false, fmt.Errorf("symlink name and target must be both set")
	}

	if _, err := os.Stat(target); err != nil {
		return false, fmt.Errorf("error checking symlink target: %w", err)
	}

	current, err := os.Readlink(name)
	switch {
	case err == nil && current == target:
		internal.Log.Debugf("Symlink %s already points to %s", name, target)
		return false, nil
	case err == nil:
		if err = os.Remove(name); err != nil {
			return false, fmt.Errorf("error removing stale symlink %s: %w", name, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("%w: %s", ErrNotSymlink, name)
	}

	if err = os.MkdirAll(filepath.Dir(name), dirMode); err != nil {
		return false, err
	}

	internal.Log.Debugf("Linking %s to %s", name, target)
	if err = os.Symlink(target, name); err != nil {
		return false, err
	}

	return true, nil
}
