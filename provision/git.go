package provision

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
)

// cloneRepo clones repo as a shallow single branch copy unless a full clone is requested,
// then hands the clone over to the user.
func cloneRepo(ctx context.Context, repo entity.GitRepo, user internal.EffectiveUser) error {
	cloneDir := user.ExpandUser(repo.Dir)
	if err := user.EnsureDir(filepath.Dir(cloneDir)); err != nil {
		return err
	}

	opt := git.CloneOptions{URL: repo.URL}
	if !repo.Full {
		opt.Depth = 1
		opt.SingleBranch = true
	}

	internal.Log.Debugf("Cloning %s into %s", repo.URL, cloneDir)
	_, err := git.PlainCloneContext(ctx, cloneDir, false, &opt)
	if err != nil {
		return fmt.Errorf("error cloning %s into %s: %w", repo.URL, cloneDir, err)
	}

	return user.ChownTree(cloneDir)
}
