package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	marecmd "github.com/femnad/mare/cmd"
)

const (
	defaultFileMode = 0o644
)

type ManagedFile struct {
	Content string
	Path    string
	Mode    int
}

func checksum(f string) (string, error) {
	fd, err := os.Open(f)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	h := sha256.New()
	_, err = io.Copy(h, fd)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func contentChecksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func needsWrite(file ManagedFile) (bool, error) {
	existing, err := checksum(file.Path)
	if os.IsNotExist(err) {
		return true, nil
	} else if err != nil {
		return false, err
	}

	return existing != contentChecksum(file.Content), nil
}

func writeWithSudo(file ManagedFile, mode int) error {
	tmp, err := os.CreateTemp("", "kur-managed-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.WriteString(file.Content); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	octal := strconv.FormatInt(int64(mode), 8)
	cmd := fmt.Sprintf("install -m %s %s %s", octal, tmp.Name(), file.Path)
	return MaybeRunWithSudo(marecmd.Input{Command: cmd})
}

// WriteContent writes the file if its content differs, reporting whether it was changed.
func WriteContent(file ManagedFile) (bool, error) {
	changed, err := needsWrite(file)
	if err != nil || !changed {
		return false, err
	}

	mode := file.Mode
	if mode == 0 {
		mode = defaultFileMode
	}

	if err = EnsureDirExists(filepath.Dir(file.Path)); err != nil {
		return false, err
	}

	err = os.WriteFile(file.Path, []byte(file.Content), os.FileMode(mode))
	if os.IsPermission(err) {
		return true, writeWithSudo(file, mode)
	} else if err != nil {
		return false, err
	}

	return true, os.Chmod(file.Path, os.FileMode(mode))
}
