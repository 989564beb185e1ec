package packages

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/common"
	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/precheck"
)

const (
	armoredKeyPrefix = "-----BEGIN PGP"
	keyRingMode      = 0o644
)

type keyFetcher interface {
	ReadResponseBytes(ctx context.Context, url string) ([]byte, error)
}

// RepoInstaller adds third party apt sources along with their signing keys.
type RepoInstaller struct {
	Codename func() (string, error)
	Exists   func(string) bool
	Fetcher  keyFetcher
	Runner
	Write func(internal.ManagedFile) (bool, error)
}

func NewRepoInstaller(fetcher keyFetcher) RepoInstaller {
	return RepoInstaller{
		Codename: precheck.GetOSVersionCodename,
		Exists:   common.FileExists,
		Fetcher:  fetcher,
		Runner:   DefaultRunner(),
		Write:    internal.WriteContent,
	}
}

func (r RepoInstaller) architecture() (string, error) {
	out, err := r.Query(marecmd.Input{Command: "dpkg --print-architecture"})
	if err != nil {
		return "", err
	}
	if out.Code != 0 {
		return "", fmt.Errorf("error determining architecture, dpkg exited with %d: %s", out.Code,
			strings.TrimSpace(out.Stderr))
	}

	return strings.TrimSpace(out.Stdout), nil
}

// dearmor converts an ASCII armored key into the binary format apt expects for signed-by keys.
func (r RepoInstaller) dearmor(key []byte) ([]byte, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(key), []byte(armoredKeyPrefix)) {
		return key, nil
	}

	dir, err := os.MkdirTemp("", "kur-key-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	armored := filepath.Join(dir, "key.asc")
	if err = os.WriteFile(armored, key, 0o600); err != nil {
		return nil, err
	}

	dearmored := filepath.Join(dir, "key.gpg")
	cmd := fmt.Sprintf("gpg --batch --yes --dearmor -o %s %s", dearmored, armored)
	if _, err = marecmd.RunFmtErr(marecmd.Input{Command: cmd}); err != nil {
		return nil, err
	}

	return os.ReadFile(dearmored)
}

func (r RepoInstaller) distribution(repo entity.AptRepo) (string, error) {
	if repo.Distribution != "" {
		return repo.Distribution, nil
	}
	return r.Codename()
}

// EnsureRepo writes the key ring and the sources list file of repo unless the sources list
// file already exists. It reports whether anything was written.
func (r RepoInstaller) EnsureRepo(ctx context.Context, repo entity.AptRepo) (bool, error) {
	if r.Exists(repo.SourcesFile()) {
		internal.Log.Debugf("Apt repository %s is already configured", repo.Name())
		return false, nil
	}

	key, err := r.Fetcher.ReadResponseBytes(ctx, repo.GPGKey)
	if err != nil {
		return false, fmt.Errorf("error downloading key of repository %s: %w", repo.Name(), err)
	}

	key, err = r.dearmor(key)
	if err != nil {
		return false, fmt.Errorf("error converting key of repository %s: %w", repo.Name(), err)
	}

	arch, err := r.architecture()
	if err != nil {
		return false, err
	}

	dist, err := r.distribution(repo)
	if err != nil {
		return false, fmt.Errorf("error determining distribution for repository %s: %w", repo.Name(), err)
	}

	_, err = r.Write(internal.ManagedFile{Content: string(key), Path: repo.KeyRingFile(), Mode: keyRingMode})
	if err != nil {
		return false, err
	}

	_, err = r.Write(internal.ManagedFile{Content: repo.SourceLine(arch, dist), Path: repo.SourcesFile()})
	if err != nil {
		return false, err
	}

	return true, nil
}
