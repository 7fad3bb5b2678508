// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a new local file system backed storage model.
//
// Keys are paths relative to the root of fs. Use an afero.BasePathFs to confine the store to some directory.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		fs: fs,
	}
}

type localFS struct {
	fs afero.Fs
}

const root = "."

// cleanKey normalizes a key to a relative slash-separated path, and rejects keys escaping the root
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + filepath.ToSlash(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == root {
		return "", status.ErrInvalidKey.Wrapf(fmt.Sprintf("empty key %q", key))
	}
	for _, c := range strings.Split(filepath.ToSlash(key), "/") {
		if c == ".." {
			return "", status.ErrInvalidKey.Wrapf(fmt.Sprintf("key %q escapes the store", key))
		}
	}
	return k, nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, err
	}

	fi, err := l.fs.Stat(filepath.FromSlash(k))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotFound.Wrapf(key)
	}
	k, _ := cleanKey(key)
	return l.fs.Open(filepath.FromSlash(k))
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	name := filepath.FromSlash(k)

	if err = l.fs.MkdirAll(filepath.Dir(name), 0700); err != nil {
		return fmt.Errorf("ensuring directories for %q: %w", key, err)
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if exclusive {
		flag |= os.O_EXCL
	}
	target, err := l.fs.OpenFile(name, flag, 0600)
	if err != nil {
		if os.IsExist(err) {
			return status.ErrExists.Wrapf(key)
		}
		return fmt.Errorf("create record for %q: %w", key, err)
	}

	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %w", key, err)
	}

	return target.Close()
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(filepath.FromSlash(k)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	if _, err := l.fs.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var res []string
	e := afero.Walk(l.fs, root, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if pth == root || info.IsDir() {
			return nil
		}
		res = append(res, strings.TrimPrefix(filepath.ToSlash(pth), "/"))
		return nil
	})
	if e != nil {
		return nil, e
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	keys, err := l.Keys(ctx)
	if err != nil {
		return nil, "", err
	}
	return paginate(keys, token, prefix, delimiter, count)
}

// paginate filters a sorted list of keys the way object store listings do
func paginate(keys []string, token, prefix, delimiter string, count int) ([]string, string, error) {
	var res []string
	for i, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if token != "" && key <= token {
			continue
		}
		if delimiter != "" && strings.Contains(strings.TrimPrefix(key, prefix), delimiter) {
			continue
		}
		if count > 0 && len(res) == count {
			// more keys may follow: resume after the last returned one
			if hasMore(keys[i:], prefix, delimiter) {
				return res, res[len(res)-1], nil
			}
			break
		}
		res = append(res, key)
	}
	return res, "", nil
}

func hasMore(keys []string, prefix, delimiter string) bool {
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) && (delimiter == "" || !strings.Contains(strings.TrimPrefix(key, prefix), delimiter)) {
			return true
		}
	}
	return false
}

// Clear removes all the content of the store, but keeps its root
func (l *localFS) Clear(ctx context.Context) error {
	entries, err := afero.ReadDir(l.fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := l.fs.RemoveAll(entry.Name()); err != nil {
			return fmt.Errorf("clearing %q: %w", entry.Name(), err)
		}
	}
	return nil
}

func (l *localFS) String() string {
	return describe("localfs", l.fs)
}

func describe(kind string, fs afero.Fs) string {
	switch fs := fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return kind
		}
		return kind + "@" + pp
	default:
		return kind
	}
}

/* thread-safe local storage implementation.
 * use a decorator pattern to implement atomic Put()s via atomicity of afero.Fs.Rename()
 * for those filesystems where Rename() is atomic: files are written to a staging area,
 * then Rename()d into place. An interrupted Put() never leaves a torn object.
 */

/* staging area key prefix and helper functions */
const (
	nestedPutStageName = ".put-stage"
)

func maybeInvalidKey(key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if strings.SplitN(k, "/", 2)[0] == nestedPutStageName {
		return status.ErrInvalidKey.Wrapf(fmt.Sprintf("key %q conflicts with put staging area name %q", key, nestedPutStageName))
	}
	return nil
}

func filterInvalidKeys(ks []string) []string {
	/* https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating */
	ksFiltered := ks[:0]
	for _, key := range ks {
		if err := maybeInvalidKey(key); err == nil {
			ksFiltered = append(ksFiltered, key)
		}
	}
	for i := len(ksFiltered); i < len(ks); i++ {
		ks[i] = ""
	}
	return ksFiltered
}

// NewAtomic creates a local file system store with atomic Put()s
func NewAtomic(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFSAtomic{
		storeImpl: localFS{fs: fs},
	}
}

type localFSAtomic struct {
	storeImpl localFS
}

/* implementing the Store interface is mostly a matter of wrapping the decorated localFs's
 * interface with helper functions.
 */

func (l *localFSAtomic) Has(ctx context.Context, key string) (bool, error) {
	if err := maybeInvalidKey(key); err != nil {
		return false, err
	}
	return l.storeImpl.Has(ctx, key)
}

func (l *localFSAtomic) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := maybeInvalidKey(key); err != nil {
		return nil, err
	}
	return l.storeImpl.Get(ctx, key)
}

func (l *localFSAtomic) Delete(ctx context.Context, key string) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	return l.storeImpl.Delete(ctx, key)
}

func (l *localFSAtomic) Keys(ctx context.Context) ([]string, error) {
	ks, err := l.storeImpl.Keys(ctx)
	if err != nil {
		return ks, err
	}
	return filterInvalidKeys(ks), nil
}

func (l *localFSAtomic) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	ks, err := l.Keys(ctx)
	if err != nil {
		return nil, "", err
	}
	return paginate(ks, token, prefix, delimiter, count)
}

func (l *localFSAtomic) Clear(ctx context.Context) error {
	return l.storeImpl.Clear(ctx)
}

/* the Put() implementation is the only part of the Store interface implemented
 * outside of the functional wrap design pattern
 */
func (l *localFSAtomic) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if exclusive {
		has, err := l.storeImpl.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists.Wrapf(key)
		}
	}
	k, _ := cleanKey(key)
	putStageKey := path.Join(nestedPutStageName, k)
	if err := l.storeImpl.Put(ctx, putStageKey, source, storage.OverWrite); err != nil {
		_ = l.storeImpl.Delete(ctx, putStageKey)
		return err
	}
	/* Rename() doesn't create directories automatically */
	name := filepath.FromSlash(k)
	if err := l.storeImpl.fs.MkdirAll(filepath.Dir(name), 0700); err != nil {
		return fmt.Errorf("ensuring directories for %q: %w", key, err)
	}
	return l.storeImpl.fs.Rename(filepath.FromSlash(putStageKey), name)
}

func (l *localFSAtomic) String() string {
	return describe("localfs-atomic", l.storeImpl.fs)
}
