package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/codetrack/codetrack/pkg/model"
	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testRoot   = "/work"
	testRepoID = "r1"
	testAuthor = "u1"
)

type fakeMetadata struct {
	mx       sync.Mutex
	err      error
	requests []model.CommitRequest
	history  *model.History
}

func (f *fakeMetadata) RecordCommit(_ context.Context, repoID string, req model.CommitRequest) (*model.CommitRecord, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &model.CommitRecord{
		ID:      fmt.Sprintf("%s-%d", repoID, len(f.requests)),
		Message: req.Message,
		Author:  req.UserID,
	}, nil
}

func (f *fakeMetadata) History(_ context.Context, repoID string) (*model.History, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.history == nil {
		return &model.History{Name: repoID}, nil
	}
	h := *f.history
	h.Commits = append([]model.CommitRecord(nil), f.history.Commits...)
	return &h, nil
}

type testClock struct {
	mx  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	fs     afero.Fs
	remote storage.Store
	meta   *fakeMetadata
	repo   *Repo
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		fs:     afero.NewMemMapFs(),
		remote: localfs.New(afero.NewBasePathFs(afero.NewMemMapFs(), "/remote")),
		meta:   &fakeMetadata{},
	}
	clock := &testClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}

	repo, err := New(append([]Option{
		Fs(f.fs),
		Root(testRoot),
		Remote(f.remote),
		MetadataService(f.meta),
		Author(testAuthor),
		Clock(clock.Now),
		Logger(zaptest.NewLogger(t)),
		LockPath(filepath.Join(t.TempDir(), "lock")),
	}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, repo.Init(testRepoID))
	f.repo = repo
	return f
}

func (f *fixture) writeFile(t testing.TB, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, filepath.Join(testRoot, name), []byte(content), 0644))
}

func (f *fixture) readFile(t testing.TB, name string) string {
	t.Helper()
	b, err := afero.ReadFile(f.fs, filepath.Join(testRoot, name))
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) stage(t testing.TB, names ...string) {
	t.Helper()
	res, err := f.repo.Stage(context.Background(), names)
	require.NoError(t, err)
	require.NoError(t, res.Err())
}

func (f *fixture) commit(t testing.TB, message string, files map[string]string) *CommitResult {
	t.Helper()
	names := make([]string, 0, len(files))
	for name, content := range files {
		f.writeFile(t, name, content)
		names = append(names, name)
	}
	f.stage(t, names...)
	res, err := f.repo.Commit(context.Background(), message)
	require.NoError(t, err)
	return res
}

// snapshot the content of a store, by key
func snapshot(t testing.TB, store storage.Store) map[string]string {
	t.Helper()
	keys, err := store.Keys(context.Background())
	require.NoError(t, err)

	res := make(map[string]string, len(keys))
	for _, key := range keys {
		rdr, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		b, err := io.ReadAll(rdr)
		require.NoError(t, err)
		require.NoError(t, rdr.Close())
		res[key] = string(b)
	}
	return res
}

// failingStore fails to write or read some keys
type failingStore struct {
	storage.Store
	failPut func(string) bool
	failGet func(string) bool
}

func (s *failingStore) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	if s.failPut != nil && s.failPut(key) {
		return fmt.Errorf("injected failure on put %s", key)
	}
	return s.Store.Put(ctx, key, rdr, exclusive)
}

func (s *failingStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.failGet != nil && s.failGet(key) {
		return nil, fmt.Errorf("injected failure on get %s", key)
	}
	return s.Store.Get(ctx, key)
}

// markerStore lists extra keys, like directory markers left by some object store clients
type markerStore struct {
	storage.Store
	extra []string
}

func (s *markerStore) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	keys, next, err := s.Store.KeysPrefix(ctx, token, prefix, delimiter, count)
	if err != nil || token != "" {
		return keys, next, err
	}
	return append(append([]string(nil), s.extra...), keys...), next, nil
}
