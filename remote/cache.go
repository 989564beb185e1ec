package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/femnad/kur/internal"
)

const (
	partSuffix = ".part"
)

// CachedArtifact is a file in the installer dir; Cached is set when it existed before the
// fetch was requested.
type CachedArtifact struct {
	Cached bool
	Path   string
}

// FetchIfAbsent downloads url into dir/filename unless that path already exists. Presence is
// the only cache criterion.
func (c Client) FetchIfAbsent(ctx context.Context, url, filename, dir string,
	user internal.EffectiveUser) (CachedArtifact, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return CachedArtifact{}, fmt.Errorf("invalid artifact filename %q", filename)
	}

	target := filepath.Join(dir, filename)
	_, err := os.Stat(target)
	if err == nil {
		internal.Log.Infof("%s is already downloaded", target)
		return CachedArtifact{Cached: true, Path: target}, nil
	} else if !os.IsNotExist(err) {
		return CachedArtifact{}, err
	}

	if err = user.EnsureDir(dir); err != nil {
		return CachedArtifact{}, fmt.Errorf("error creating installer dir %s: %w", dir, err)
	}

	internal.Log.Debugf("Downloading %s into %s", url, target)
	part := target + partSuffix
	if err = c.Download(ctx, url, part); err != nil {
		_ = os.Remove(part)
		return CachedArtifact{}, err
	}

	if err = os.Rename(part, target); err != nil {
		_ = os.Remove(part)
		return CachedArtifact{}, err
	}

	if err = user.Chown(target); err != nil {
		return CachedArtifact{}, fmt.Errorf("error setting owner of %s to %s: %w", target, user.Name, err)
	}

	return CachedArtifact{Path: target}, nil
}
