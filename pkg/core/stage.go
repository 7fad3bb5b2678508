package core

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/errors"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	storagestatus "github.com/codetrack/codetrack/pkg/storage/status"
	"go.uber.org/zap"
)

// Stage copies files from the working tree to the staging area, under their base name.
//
// Paths are relative to the root of the working tree. A file staged again replaces the previously staged copy.
// Files which cannot be staged are reported, and do not prevent the others from being staged.
func (r *Repo) Stage(ctx context.Context, paths []string) (StageResult, error) {
	var res StageResult

	release, err := r.lock()
	if err != nil {
		return res, err
	}
	defer release()

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name, err := r.stageOne(ctx, p)
		if err != nil {
			r.l.Warn("could not stage file", zap.String("file", p), zap.Error(err))
			res.fail(p, err)
			continue
		}
		r.l.Debug("staged", zap.String("file", p), zap.String("as", name))
		res.done(name)
	}
	return res, nil
}

func (r *Repo) stageOne(ctx context.Context, p string) (string, error) {
	key := path.Clean(filepath.ToSlash(p))
	name := path.Base(key)
	if model.IsCommitDescriptor(name) {
		return "", status.ErrReservedName.Wrapf(name + " is reserved for commit descriptors")
	}
	if top := strings.SplitN(strings.TrimPrefix(key, "/"), "/", 2)[0]; model.IsMetaDir(top) {
		return "", status.ErrReservedName.Wrapf(p + " is internal to the repository")
	}

	rdr, err := r.tree.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotFound) || errors.Is(err, storagestatus.ErrInvalidKey) {
			return "", status.ErrNotFound.Wrap(err)
		}
		return "", err
	}
	defer func() {
		_ = rdr.Close()
	}()

	if err := r.staging.Put(ctx, name, rdr, storage.OverWrite); err != nil {
		return "", err
	}
	return name, nil
}

// Unstage removes files from the staging area. Only the base name of each path is considered.
func (r *Repo) Unstage(ctx context.Context, paths []string) (UnstageResult, error) {
	var res UnstageResult

	release, err := r.lock()
	if err != nil {
		return res, err
	}
	defer release()

	for _, p := range paths {
		name := path.Base(path.Clean(filepath.ToSlash(p)))
		has, err := r.staging.Has(ctx, name)
		if err != nil {
			res.fail(name, err)
			continue
		}
		if !has {
			r.l.Warn("file is not staged", zap.String("file", name))
			res.NotStaged = append(res.NotStaged, name)
			continue
		}
		if err := r.staging.Delete(ctx, name); err != nil {
			res.fail(name, err)
			continue
		}
		r.l.Debug("unstaged", zap.String("file", name))
		res.done(name)
	}
	return res, nil
}

// Staged lists the names of the files currently staged, in lexical order
func (r *Repo) Staged(ctx context.Context) ([]string, error) {
	return r.staging.Keys(ctx)
}
