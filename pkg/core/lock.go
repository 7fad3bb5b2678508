package core

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/nightlyone/lockfile"
	"go.uber.org/zap"
)

// lock the repository metadata against concurrent stage or commit operations from other processes.
//
// The lock file holds the pid of its owner: a lock left behind by a dead process is taken over.
// The lock lives on the OS file system, at LockPath or in the metadata directory of the working tree.
func (r *Repo) lock() (func(), error) {
	path := r.lockPath
	if path == "" {
		if err := r.fs.MkdirAll(model.MetaDir, 0700); err != nil {
			return nil, fmt.Errorf("creating %s: %w", model.MetaDir, err)
		}
		path = filepath.Join(r.root, filepath.FromSlash(model.GetPathToLock()))
	}

	lf, err := lockfile.New(path)
	if err != nil {
		return nil, fmt.Errorf("preparing repository lock %s: %w", path, err)
	}
	if err = lf.TryLock(); err != nil {
		if errors.Is(err, lockfile.ErrBusy) {
			return nil, status.ErrLocked.Wrapf(fmt.Sprintf("%s is held by another process", path))
		}
		return nil, fmt.Errorf("acquiring repository lock %s: %w", path, err)
	}

	return func() {
		if err := lf.Unlock(); err != nil {
			r.l.Warn("could not release repository lock", zap.String("lock", path), zap.Error(err))
		}
	}, nil
}
