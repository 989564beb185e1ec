package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("executable not found")

func isExecutable(candidate string) bool {
	info, err := os.Stat(candidate)
	return err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0
}

// Which locates exec in PATH, accepting absolute paths as they are.
func Which(exec string) (string, error) {
	if strings.HasPrefix(exec, "/") {
		if isExecutable(exec) {
			return exec, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, exec)
	}

	for _, pathComp := range filepath.SplitList(os.Getenv("PATH")) {
		if pathComp == "" {
			continue
		}
		candidate := filepath.Join(pathComp, exec)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: unable to find absolute path for %s", ErrNotFound, exec)
}
