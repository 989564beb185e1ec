package common

import (
	"errors"
	"io"
	"os"
)

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirNonEmpty reports whether path is a directory with at least one entry.
func DirNonEmpty(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	return !errors.Is(err, io.EOF) && err == nil
}
