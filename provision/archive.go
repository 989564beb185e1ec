package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/femnad/kur/archive"
	"github.com/femnad/kur/common"
	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
)

// archiveRoot returns the single top level directory of an extracted archive, or dir itself
// if the archive has more than one top level entry.
func archiveRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}

	return dir, nil
}

func createSymlinks(links []string, target, linkDir string) error {
	for _, link := range links {
		symlinkTarget := filepath.Join(target, link)
		symlinkName := filepath.Join(linkDir, filepath.Base(link))
		if _, err := common.Link(symlinkName, symlinkTarget); err != nil {
			return err
		}
	}

	return nil
}

// installArchive unpacks a release archive as <opt dir>/<target> and links its executables into
// the link dir. An existing installation under the same name is replaced.
func (a Actions) installArchive(ctx context.Context, name string, release entity.ArchiveRelease) error {
	path, err := a.fetchRelease(ctx, name, release.ReleaseSource)
	if err != nil {
		return err
	}

	optDir := a.Config.Settings.GetOptDir()
	if err = internal.EnsureDirExists(optDir); err != nil {
		return err
	}

	targetName := release.Target
	if targetName == "" {
		targetName = entity.Slug(name)
	}
	target := filepath.Join(optDir, targetName)

	tmp, err := os.MkdirTemp(optDir, fmt.Sprintf(".kur-%s-*", targetName))
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err = archive.Extract(path, tmp); err != nil {
		return fmt.Errorf("error extracting %s: %w", path, err)
	}

	root, err := archiveRoot(tmp)
	if err != nil {
		return err
	}

	if err = internal.EnsureDirAbsent(target); err != nil {
		return err
	}
	if err = os.Chmod(root, 0o755); err != nil {
		return err
	}
	if err = os.Rename(root, target); err != nil {
		return fmt.Errorf("error moving extracted archive into %s: %w", target, err)
	}

	return createSymlinks(release.Link, target, a.Config.Settings.GetLinkDir())
}
