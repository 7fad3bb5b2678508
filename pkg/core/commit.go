// Copyright © 2018 One Concern

package core

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/errors"
	"github.com/codetrack/codetrack/pkg/metadata"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	"go.uber.org/zap"
)

const maxIDAttempts = 3

// Commit the staged files.
//
// The staged files are copied into a new commit directory, then the commit is recorded by the metadata service.
// The staging area is cleared only once the commit is recorded: when recording fails, the local commit is kept,
// staging is left unchanged, and ErrPartialFailure is returned along with the result.
func (r *Repo) Commit(ctx context.Context, message string) (*CommitResult, error) {
	if r.author == "" {
		return nil, status.ErrConfigMissing.Wrap(status.ErrAuthorMissing)
	}
	if r.metadata == nil {
		return nil, status.ErrConfigMissing.Wrapf("no metadata service configured")
	}

	// an uninitialized working tree is left untouched
	repoID, err := r.repoID()
	if err != nil {
		return nil, err
	}

	release, err := r.lock()
	if err != nil {
		return nil, err
	}
	defer release()

	staged, err := r.staging.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return nil, status.ErrEmptyStaging
	}

	commitID, err := r.newCommitID(ctx)
	if err != nil {
		return nil, err
	}

	res := &CommitResult{
		ID: commitID,
		Descriptor: model.CommitDescriptor{
			Message: message,
			Date:    r.clock(),
		},
	}

	if err := r.writeCommit(ctx, res, staged); err != nil {
		r.discardCommit(commitID)
		return nil, err
	}
	r.l.Info("commit created", zap.String("commit", commitID), zap.Int("files", len(res.Files)))

	record, err := r.metadata.RecordCommit(ctx, repoID, model.CommitRequest{
		Message: message,
		UserID:  r.author,
	})
	if err != nil {
		r.l.Warn("commit saved locally, but not recorded by the metadata service", zap.String("commit", commitID), zap.Error(err))
		return res, status.ErrPartialFailure.Wrap(networkError(err))
	}
	res.Record = record

	if err := r.staging.Clear(ctx); err != nil {
		r.l.Warn("could not clear staging area", zap.Error(err))
	}
	return res, nil
}

func (r *Repo) newCommitID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := r.newID()
		existing, _, err := r.commits.KeysPrefix(ctx, "", model.GetCommitPrefix(id), "", 1)
		if err != nil {
			return "", err
		}
		if len(existing) == 0 {
			return id, nil
		}
		r.l.Warn("commit id already used", zap.String("commit", id))
	}
	return "", fmt.Errorf("could not generate a new commit id after %d attempts", maxIDAttempts)
}

func (r *Repo) writeCommit(ctx context.Context, res *CommitResult, staged []string) error {
	for _, name := range staged {
		if err := r.copyStaged(ctx, res.ID, name); err != nil {
			return fmt.Errorf("copying %s into commit %s: %w", name, res.ID, err)
		}
		res.Files = append(res.Files, name)
	}

	desc, err := json.Marshal(res.Descriptor)
	if err != nil {
		return err
	}
	return r.commits.Put(ctx, model.GetCommitKey(res.ID, model.CommitDescriptorFile), bytes.NewReader(desc), storage.NoOverWrite)
}

func (r *Repo) copyStaged(ctx context.Context, commitID, name string) error {
	rdr, err := r.staging.Get(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		_ = rdr.Close()
	}()
	return r.commits.Put(ctx, model.GetCommitKey(commitID, name), rdr, storage.NoOverWrite)
}

// discardCommit removes a commit directory left incomplete
func (r *Repo) discardCommit(commitID string) {
	dir := filepath.Join(filepath.FromSlash(model.GetPathToCommits()), commitID)
	if err := r.fs.RemoveAll(dir); err != nil {
		r.l.Warn("could not remove incomplete commit", zap.String("commit", commitID), zap.Error(err))
	}
}

// networkError qualifies an error returned by the metadata service or the remote object store
func networkError(err error) error {
	switch {
	case errors.Is(err, status.ErrNotFound), errors.Is(err, status.ErrNetwork):
		return err
	case errors.Is(err, metadata.ErrNotFound):
		return status.ErrNotFound.Wrap(err)
	default:
		return status.ErrNetwork.Wrap(err)
	}
}
