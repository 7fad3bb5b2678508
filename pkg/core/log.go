package core

import (
	"context"
	"sort"
	"strings"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/model"
	"go.uber.org/zap"
)

// History of commits recorded by the metadata service, most recent first
func (r *Repo) History(ctx context.Context) (*model.History, error) {
	if r.metadata == nil {
		return nil, status.ErrConfigMissing.Wrapf("no metadata service configured")
	}
	repoID, err := r.repoID()
	if err != nil {
		return nil, err
	}

	history, err := r.metadata.History(ctx, repoID)
	if err != nil {
		return nil, networkError(err)
	}

	commits := make([]model.CommitRecord, len(history.Commits))
	for i, c := range history.Commits {
		commits[len(commits)-1-i] = c
	}
	history.Commits = commits
	return history, nil
}

// LocalCommits lists the commits of the local commit store, most recent first
func (r *Repo) LocalCommits(ctx context.Context) ([]model.LocalCommit, error) {
	keys, err := r.commits.Keys(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*model.LocalCommit)
	for _, key := range keys {
		parts := strings.SplitN(key, "/", 2)
		if len(parts) < 2 {
			continue
		}
		id, name := parts[0], parts[1]
		c, ok := index[id]
		if !ok {
			c = &model.LocalCommit{ID: id}
			index[id] = c
		}
		if model.IsCommitDescriptor(name) {
			continue
		}
		c.Files = append(c.Files, name)
	}

	commits := make([]model.LocalCommit, 0, len(index))
	for id, c := range index {
		desc, err := r.readDescriptor(ctx, id)
		if err != nil {
			// a commit pulled partially has no descriptor: list it anyway
			r.l.Warn("cannot read commit descriptor", zap.String("commit", id), zap.Error(err))
		}
		c.CommitDescriptor = desc
		commits = append(commits, *c)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		if commits[i].Date.Equal(commits[j].Date) {
			return commits[i].ID < commits[j].ID
		}
		return commits[i].Date.After(commits[j].Date)
	})
	return commits, nil
}

func (r *Repo) readDescriptor(ctx context.Context, commitID string) (model.CommitDescriptor, error) {
	var desc model.CommitDescriptor
	rdr, err := r.commits.Get(ctx, model.GetCommitKey(commitID, model.CommitDescriptorFile))
	if err != nil {
		return desc, err
	}
	defer func() {
		_ = rdr.Close()
	}()
	err = json.NewDecoder(rdr).Decode(&desc)
	return desc, err
}
