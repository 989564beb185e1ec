package internal

import (
	"fmt"
	"os"

	marecmd "github.com/femnad/mare/cmd"
)

func EnsureDirAbsent(dir string) error {
	_, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// EnsureDirExists creates a system directory, escalating privileges if required.
func EnsureDirExists(dir string) error {
	_, err := os.Stat(dir)
	if err == nil {
		return nil
	}

	if !os.IsNotExist(err) {
		return err
	}

	err = os.MkdirAll(dir, 0o755)
	if err == nil {
		return nil
	} else if !os.IsPermission(err) {
		return err
	}

	return MaybeRunWithSudo(marecmd.Input{Command: fmt.Sprintf("mkdir -p %s", dir)})
}
