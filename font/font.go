// Package font installs font archives into the system font directories.
package font

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	marecmd "github.com/femnad/mare/cmd"

	"github.com/femnad/kur/archive"
	"github.com/femnad/kur/common"
	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/remote"
	"github.com/femnad/kur/status"
)

const (
	defaultExtension = ".zip"
	dirMode          = 0o755
	fileMode         = 0o644
	fcCache          = "fc-cache -f"
)

var (
	ErrNoFontFiles = errors.New("no font files")
)

// Owner is the system account installed font files are handed over to.
type Owner struct {
	Gid int
	Uid int
}

func LookupOwner(name string) (Owner, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Owner{}, fmt.Errorf("error looking up font owner %s: %v", name, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Owner{}, err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Owner{}, err
	}

	return Owner{Gid: gid, Uid: uid}, nil
}

type Fetcher func(ctx context.Context, url, filename, dir string,
	user internal.EffectiveUser) (remote.CachedArtifact, error)

// Result tallies fonts by outcome.
type Result struct {
	Failed    int
	Installed int
	Present   int
}

type Installer struct {
	Extract      func(src, dest string) error
	Fetch        Fetcher
	InstallerDir string
	Owner        Owner
	RefreshCache func() error
	Reporter     *status.Reporter
	Root         string
	// TempDir is the parent of extraction dirs, the system default if empty.
	TempDir string
	User    internal.EffectiveUser
}

func refreshCache() error {
	return internal.MaybeRunWithSudo(marecmd.Input{Command: fcCache})
}

func NewInstaller(client remote.Client, reporter *status.Reporter, root, installerDir string, owner Owner,
	user internal.EffectiveUser) Installer {
	return Installer{
		Extract:      archive.Extract,
		Fetch:        client.FetchIfAbsent,
		InstallerDir: installerDir,
		Owner:        owner,
		RefreshCache: refreshCache,
		Reporter:     reporter,
		Root:         root,
		User:         user,
	}
}

func archiveName(spec entity.FontSpec) string {
	ext := internal.ArtifactExtension(remote.URLFilename(spec.URL))
	if ext == "" {
		ext = defaultExtension
	}
	return spec.Slug() + ext
}

// classify collects font files under root per class, in lexical walk order.
func classify(root string) (map[Class][]string, error) {
	found := map[Class][]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if class, ok := ClassOf(d.Name()); ok {
			found[class] = append(found[class], path)
		}
		return nil
	})

	return found, err
}

func (i Installer) copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}

	if err = os.Chmod(dst, fileMode); err != nil {
		return err
	}
	return os.Chown(dst, i.Owner.Uid, i.Owner.Gid)
}

// place copies files flat into the class dir of the font. Files with the same base name
// overwrite each other in walk order.
func (i Installer) place(spec entity.FontSpec, class Class, files []string) (bool, error) {
	dest := filepath.Join(i.Root, string(class), spec.Slug())
	if common.DirNonEmpty(dest) {
		i.Reporter.Warning("%s %s fonts are already installed", spec.Name, class)
		return false, nil
	}

	if err := os.MkdirAll(dest, dirMode); err != nil {
		return false, fmt.Errorf("error creating %s: %w", dest, err)
	}

	var errs []error
	copied := mapset.NewThreadUnsafeSet[string]()
	for _, file := range files {
		base := filepath.Base(file)
		if copied.Contains(base) {
			i.Reporter.Warning("%s contains more than one %s, keeping the last one", spec.Name, base)
		}

		if err := i.copyFile(file, filepath.Join(dest, base)); err != nil {
			errs = append(errs, fmt.Errorf("error copying %s: %w", base, err))
			continue
		}
		copied.Add(base)
	}

	if copied.Cardinality() == 0 {
		if err := os.Remove(dest); err != nil {
			errs = append(errs, err)
		}
		return false, fmt.Errorf("no %s files of %s could be installed: %w", class, spec.Name, errors.Join(errs...))
	}

	i.Reporter.Success("Installed %d %s files of %s", copied.Cardinality(), class, spec.Name)
	return true, errors.Join(errs...)
}

// Install places the fonts of a single spec and reports whether any class was newly placed.
func (i Installer) Install(ctx context.Context, spec entity.FontSpec) (bool, error) {
	artifact, err := i.Fetch(ctx, spec.URL, archiveName(spec), i.InstallerDir, i.User)
	if err != nil {
		return false, fmt.Errorf("error downloading %s: %w", spec.URL, err)
	}

	tmp, err := os.MkdirTemp(i.TempDir, fmt.Sprintf("kur-font-%s-*", spec.Slug()))
	if err != nil {
		return false, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			internal.Log.Warningf("error removing %s: %v", tmp, rmErr)
		}
	}()

	if err = i.Extract(artifact.Path, tmp); err != nil {
		return false, fmt.Errorf("error extracting %s: %w", artifact.Path, err)
	}

	found, err := classify(tmp)
	if err != nil {
		return false, err
	}
	if len(found) == 0 {
		return false, fmt.Errorf("%w in %s", ErrNoFontFiles, artifact.Path)
	}

	var errs []error
	var placed bool
	for _, class := range classes {
		files := found[class]
		if len(files) == 0 {
			continue
		}
		internal.Log.Debugf("Found %d %s files for %s", len(files), class, spec.Name)

		classPlaced, classErr := i.place(spec, class, files)
		placed = placed || classPlaced
		if classErr != nil {
			errs = append(errs, classErr)
		}
	}

	return placed, errors.Join(errs...)
}

// InstallAll installs every font, reporting failures without stopping, then refreshes the
// font cache once if anything was placed. Only a cache refresh failure is returned.
func (i Installer) InstallAll(ctx context.Context, fonts []entity.FontSpec) (Result, error) {
	var result Result
	var refresh bool
	for _, spec := range fonts {
		placed, err := i.Install(ctx, spec)
		refresh = refresh || placed
		switch {
		case err != nil:
			result.Failed++
			i.Reporter.Error("Failed to install font %s: %v", spec.Name, err)
		case placed:
			result.Installed++
		default:
			result.Present++
		}
	}

	if !refresh {
		internal.Log.Debugf("No new fonts placed, skipping font cache refresh")
		return result, nil
	}

	if err := i.RefreshCache(); err != nil {
		return result, fmt.Errorf("error refreshing font cache: %w", err)
	}
	i.Reporter.Success("Refreshed font cache")

	return result, nil
}
