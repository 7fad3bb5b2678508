// Copyright © 2018 One Concern

package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/localfs"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Metadata records commits and serves the history of a repository
type Metadata interface {
	RecordCommit(context.Context, string, model.CommitRequest) (*model.CommitRecord, error)
	History(context.Context, string) (*model.History, error)
}

// Repo is a working tree under version tracking
type Repo struct {
	root        string
	rawFs       afero.Fs
	fs          afero.Fs // rooted at the working tree
	remote      storage.Store
	metadata    Metadata
	author      string
	concurrency int
	ignore      map[string]struct{}
	l           *zap.Logger
	clock       func() time.Time
	newID       func() string
	lockPath    string

	tree    storage.Store
	staging storage.Store
	commits storage.Store
}

// New working tree, located at Root (defaults to the current directory)
func New(opts ...Option) (*Repo, error) {
	r := defaultRepo()
	for _, apply := range opts {
		apply(r)
	}

	root, err := filepath.Abs(r.root)
	if err != nil {
		return nil, fmt.Errorf("resolving working tree %q: %w", r.root, err)
	}
	r.root = root
	if r.lockPath != "" {
		lockPath, err := filepath.Abs(r.lockPath)
		if err != nil {
			return nil, fmt.Errorf("resolving lock file %q: %w", r.lockPath, err)
		}
		r.lockPath = lockPath
	}

	r.fs = afero.NewBasePathFs(r.rawFs, root)
	r.tree = localfs.New(r.fs)
	r.staging = localfs.New(afero.NewBasePathFs(r.rawFs, filepath.Join(root, filepath.FromSlash(model.GetPathToStaging()))))
	r.commits = localfs.NewAtomic(afero.NewBasePathFs(r.rawFs, filepath.Join(root, filepath.FromSlash(model.GetPathToCommits()))))

	if r.remote != nil {
		r.remote = storage.Instrument(r.l, r.remote)
	}
	return r, nil
}

func defaultRepo() *Repo {
	return &Repo{
		root:        ".",
		rawFs:       afero.NewOsFs(),
		concurrency: 1,
		ignore:      defaultIgnore(),
		l:           zap.NewNop(),
		clock:       model.GetCommitTimeStamp,
		newID:       uuid.NewString,
	}
}

// Root of the working tree
func (r *Repo) Root() string {
	return r.root
}

// Remote object store, if any
func (r *Repo) Remote() storage.Store {
	return r.remote
}

// Init a working tree: creates the metadata directory and, when a repo id is given, writes the repo config.
//
// Init may be run again on an initialized tree to change the repo id.
func (r *Repo) Init(repoID string) error {
	for _, dir := range []string{model.GetPathToStaging(), model.GetPathToCommits()} {
		if err := r.fs.MkdirAll(filepath.FromSlash(dir), 0700); err != nil {
			return fmt.Errorf("initializing %s: %w", dir, err)
		}
	}
	if repoID == "" {
		return nil
	}

	cfg := model.RepoConfig{RepoID: repoID}
	if err := cfg.Validate(); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := afero.WriteFile(r.fs, filepath.FromSlash(model.GetPathToConfig()), buf, 0600); err != nil {
		return fmt.Errorf("writing repo config: %w", err)
	}
	r.l.Info("repository initialized", zap.String("root", r.root), zap.String("repoId", repoID))
	return nil
}

// Config reads the repo config of the working tree
func (r *Repo) Config() (model.RepoConfig, error) {
	var cfg model.RepoConfig
	buf, err := afero.ReadFile(r.fs, filepath.FromSlash(model.GetPathToConfig()))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, status.ErrConfigMissing.Wrapf(fmt.Sprintf("no %s found in %s: is the repository initialized?", model.GetPathToConfig(), r.root))
		}
		return cfg, status.ErrConfigMissing.Wrap(err)
	}
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return cfg, status.ErrConfigMissing.Wrap(fmt.Errorf("invalid repo config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, status.ErrConfigMissing.Wrap(err)
	}
	return cfg, nil
}

func (r *Repo) repoID() (string, error) {
	cfg, err := r.Config()
	if err != nil {
		return "", err
	}
	return cfg.RepoID, nil
}
