package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	"go.uber.org/zap"
)

// Revert restores the files of a commit in the working tree, overwriting working files with the same name.
//
// Working files absent from the commit are left alone, and so is the staging area.
// Json metadata and markdown documentation files of the commit are not restored.
func (r *Repo) Revert(ctx context.Context, commitID string) (RevertResult, error) {
	res := RevertResult{CommitID: commitID}

	if commitID == "" || strings.ContainsAny(commitID, `/\`) || strings.HasPrefix(commitID, ".") {
		return res, status.ErrNotFound.Wrapf(fmt.Sprintf("invalid commit id %q", commitID))
	}

	prefix := model.GetCommitPrefix(commitID)
	keys, err := storage.ListPrefix(ctx, r.commits, prefix)
	if err != nil {
		return res, err
	}
	if len(keys) == 0 {
		return res, status.ErrNotFound.Wrapf(fmt.Sprintf("no commit %s in %s", commitID, model.GetPathToCommits()))
	}

	for _, key := range keys {
		name := strings.TrimPrefix(key, prefix)
		if model.IsCommitControlFile(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.restore(ctx, key, name); err != nil {
			r.l.Warn("could not restore file", zap.String("file", name), zap.Error(err))
			res.fail(name, err)
			continue
		}
		r.l.Debug("restored", zap.String("file", name), zap.String("commit", commitID))
		res.done(name)
	}
	return res, nil
}

func (r *Repo) restore(ctx context.Context, key, name string) error {
	rdr, err := r.commits.Get(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		_ = rdr.Close()
	}()
	return r.tree.Put(ctx, name, rdr, storage.OverWrite)
}
