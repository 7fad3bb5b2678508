// Copyright © 2018 One Concern

package core

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// transfer copies a single file between stores
type transfer struct {
	name    string // reported in results
	src     storage.Store
	srcKey  string
	dest    storage.Store
	destKey string
	upload  bool // the remote store is the destination
}

// Push uploads every file of the local commit store to the remote object store.
//
// Push is stateless about what was previously pushed: all commits are uploaded, and remote objects are overwritten.
func (r *Repo) Push(ctx context.Context) (SyncResult, error) {
	var res SyncResult

	repoID, err := r.repoID()
	if err != nil {
		return res, err
	}
	if r.remote == nil {
		return res, status.ErrConfigMissing.Wrapf("no remote object store configured")
	}
	res.Store = r.remote.String()

	keys, err := r.commits.Keys(ctx)
	if err != nil {
		return res, err
	}
	if len(keys) == 0 {
		r.l.Info("nothing to push")
		res.Nothing = true
		return res, nil
	}

	transfers := make([]transfer, 0, len(keys))
	for _, key := range keys {
		remoteKey := model.GetRemoteObjectKeyFromCommitKey(repoID, key)
		transfers = append(transfers, transfer{
			name:    remoteKey,
			src:     r.commits,
			srcKey:  key,
			dest:    r.remote,
			destKey: remoteKey,
			upload:  true,
		})
	}

	r.run(ctx, transfers, &res)
	return res, nil
}

// Pull downloads every remote object of the repository into the local commit store.
//
// Local files are overwritten. Objects which do not follow the remote key scheme are reported as failures.
func (r *Repo) Pull(ctx context.Context) (SyncResult, error) {
	var res SyncResult

	repoID, err := r.repoID()
	if err != nil {
		return res, err
	}
	if r.remote == nil {
		return res, status.ErrConfigMissing.Wrapf("no remote object store configured")
	}
	res.Store = r.remote.String()

	keys, err := storage.ListPrefix(ctx, r.remote, model.GetRemotePrefix(repoID))
	if err != nil {
		return res, networkError(err)
	}

	transfers := make([]transfer, 0, len(keys))
	for _, key := range keys {
		if model.IsDirectoryMarker(key) {
			continue
		}
		components, err := model.GetRemoteKeyComponents(key)
		if err != nil {
			res.fail(key, err)
			continue
		}
		transfers = append(transfers, transfer{
			name:    components.CommitKey(),
			src:     r.remote,
			srcKey:  key,
			dest:    r.commits,
			destKey: components.CommitKey(),
		})
	}
	if len(transfers) == 0 && len(res.Failed) == 0 {
		r.l.Info("nothing to pull")
		res.Nothing = true
		return res, nil
	}

	r.run(ctx, transfers, &res)
	return res, nil
}

// run a batch of transfers, at most r.concurrency at a time.
//
// A failed transfer does not stop the others. Once the context is done, no new transfer is started.
func (r *Repo) run(ctx context.Context, transfers []transfer, res *SyncResult) {
	var (
		mx    sync.Mutex
		bytes int64
		group errgroup.Group
	)
	group.SetLimit(r.concurrency)

	for _, t := range transfers {
		if ctx.Err() != nil {
			break
		}
		t := t
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			n, err := t.run(ctx)
			atomic.AddInt64(&bytes, n)

			mx.Lock()
			defer mx.Unlock()
			if err != nil {
				r.l.Warn("transfer failed", zap.String("file", t.name), zap.Error(err))
				res.fail(t.name, err)
				return nil
			}
			r.l.Debug("transferred", zap.String("file", t.name), zap.Int64("bytes", n))
			res.done(t.name)
			return nil
		})
	}
	_ = group.Wait()

	res.Bytes = bytes
	res.Interrupted = ctx.Err() != nil && len(res.Done) < len(transfers)
}

func (t transfer) run(ctx context.Context) (int64, error) {
	rdr, err := t.src.Get(ctx, t.srcKey)
	if err != nil {
		if !t.upload {
			err = networkError(err)
		}
		return 0, err
	}
	defer func() {
		_ = rdr.Close()
	}()

	counter := &countingReader{Reader: rdr}
	if err := t.dest.Put(ctx, t.destKey, counter, storage.OverWrite); err != nil {
		if t.upload {
			err = networkError(err)
		}
		return counter.n, err
	}
	return counter.n, nil
}

type countingReader struct {
	io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.n += int64(n)
	return n, err
}
