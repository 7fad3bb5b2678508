package core

import (
	"time"

	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Option sets options for a working tree
type Option func(*Repo)

// Fs sets the file system holding the working tree. It defaults to the OS file system.
func Fs(fs afero.Fs) Option {
	return func(r *Repo) {
		if fs != nil {
			r.rawFs = fs
		}
	}
}

// Root of the working tree. It defaults to the current directory.
func Root(root string) Option {
	return func(r *Repo) {
		if root != "" {
			r.root = root
		}
	}
}

// Remote object store for push and pull
func Remote(store storage.Store) Option {
	return func(r *Repo) {
		r.remote = store
	}
}

// MetadataService records commits and serves the history
func MetadataService(meta Metadata) Option {
	return func(r *Repo) {
		r.metadata = meta
	}
}

// Author identity, required to commit
func Author(author string) Option {
	return func(r *Repo) {
		r.author = author
	}
}

// ConcurrentTransfers sets the max number of files uploaded or downloaded at the same time. It defaults to 1.
func ConcurrentTransfers(n int) Option {
	return func(r *Repo) {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
	}
}

// Ignore adds names of working tree entries never reported as untracked
func Ignore(names ...string) Option {
	return func(r *Repo) {
		for _, name := range names {
			if name != "" {
				r.ignore[name] = struct{}{}
			}
		}
	}
}

// Logger for the working tree
func Logger(l *zap.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.l = l
		}
	}
}

// Clock yields the date of new commits
func Clock(clock func() time.Time) Option {
	return func(r *Repo) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// LockPath sets the location of the repository lock file, on the OS file system.
// It defaults to the lock file in the metadata directory of the working tree.
func LockPath(path string) Option {
	return func(r *Repo) {
		r.lockPath = path
	}
}

// internal entries of a working tree, never reported as untracked
func defaultIgnore() map[string]struct{} {
	return map[string]struct{}{
		model.MetaDir: {},
		".git":        {},
	}
}
