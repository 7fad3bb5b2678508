// Copyright © 2018 One Concern

package localfs

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/codetrack/codetrack/pkg/errors"
	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	for _, bs := range setupStores(t) {
		has, err := bs.Has(context.Background(), "sixteentons")
		require.NoError(t, err)
		require.True(t, has)

		has, err = bs.Has(context.Background(), "seventeentons")
		require.NoError(t, err)
		require.True(t, has)

		has, err = bs.Has(context.Background(), "fifteentons")
		require.NoError(t, err)
		require.False(t, has)

		has, err = bs.Has(context.Background(), "dir")
		require.NoError(t, err)
		require.False(t, has, "directories are not objects")
	}
}

func TestGet(t *testing.T) {
	for _, bs := range setupStores(t) {
		rdr, err := bs.Get(context.Background(), "sixteentons")
		require.NoError(t, err)
		b, err := io.ReadAll(rdr)
		require.NoError(t, err)
		require.NoError(t, rdr.Close())
		assert.Equal(t, "this is the text", string(b))

		rdr, err = bs.Get(context.Background(), "dir/seventeentons")
		require.NoError(t, err)
		b, err = io.ReadAll(rdr)
		require.NoError(t, err)
		require.NoError(t, rdr.Close())
		assert.Equal(t, "this is the text for another thing", string(b))

		_, err = bs.Get(context.Background(), "fifteentons")
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNotFound))
	}
}

func TestKeys(t *testing.T) {
	for _, bs := range setupStores(t) {
		keys, err := bs.Keys(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"dir/seventeentons", "seventeentons", "sixteentons"}, keys)
	}
}

func TestKeysMissingRoot(t *testing.T) {
	fs := afero.NewBasePathFs(afero.NewMemMapFs(), "/nowhere")
	for _, bs := range []storage.Store{New(fs), NewAtomic(fs)} {
		keys, err := bs.Keys(context.Background())
		require.NoError(t, err)
		require.Empty(t, keys)
		require.NoError(t, bs.Clear(context.Background()))
	}
}

func TestDelete(t *testing.T) {
	for _, bs := range setupStores(t) {
		require.NoError(t, bs.Delete(context.Background(), "seventeentons"))
		require.NoError(t, bs.Delete(context.Background(), "seventeentons"), "deleting twice is fine")
		k, _ := bs.Keys(context.Background())
		assert.Len(t, k, 2)
	}
}

func TestClear(t *testing.T) {
	for _, bs := range setupStores(t) {
		require.NoError(t, bs.Clear(context.Background()))
		k, _ := bs.Keys(context.Background())
		require.Empty(t, k)

		// the store remains usable
		require.NoError(t, bs.Put(context.Background(), "again", bytes.NewBufferString("x"), storage.NoOverWrite))
		k, _ = bs.Keys(context.Background())
		require.Len(t, k, 1)
	}
}

func TestPut(t *testing.T) {
	for _, bs := range setupStores(t) {
		content := bytes.NewBufferString("here we go once again")
		err := bs.Put(context.Background(), "eighteentons", content, storage.NoOverWrite)
		require.NoError(t, err)

		assertContent(t, bs, "eighteentons", "here we go once again")

		k, _ := bs.Keys(context.Background())
		assert.Len(t, k, 4)

		err = bs.Put(context.Background(), "eighteentons", bytes.NewBufferString("nope"), storage.NoOverWrite)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrExists))

		// overwriting with shorter content truncates
		err = bs.Put(context.Background(), "eighteentons", bytes.NewBufferString("short"), storage.OverWrite)
		require.NoError(t, err)
		assertContent(t, bs, "eighteentons", "short")

		err = bs.Put(context.Background(), "a/b/c/nested", bytes.NewBufferString("deep"), storage.OverWrite)
		require.NoError(t, err)
		assertContent(t, bs, "a/b/c/nested", "deep")
	}
}

func TestInvalidKeys(t *testing.T) {
	for _, bs := range setupStores(t) {
		for _, key := range []string{"", "/", "../outside", "a/../../outside"} {
			err := bs.Put(context.Background(), key, bytes.NewBufferString("x"), storage.OverWrite)
			require.Error(t, err, key)
			assert.True(t, errors.Is(err, status.ErrInvalidKey), key)
		}
	}
}

func TestAtomicHidesStagingArea(t *testing.T) {
	fs := afero.NewBasePathFs(afero.NewMemMapFs(), "/store")
	bs := NewAtomic(fs)
	require.NoError(t, bs.Put(context.Background(), "c1/a", bytes.NewBufferString("x"), storage.OverWrite))

	// leftovers of an interrupted put
	require.NoError(t, fs.MkdirAll(nestedPutStageName+"/c1", 0700))
	require.NoError(t, afero.WriteFile(fs, nestedPutStageName+"/c1/b", []byte("torn"), 0600))

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c1/a"}, keys)

	_, err = bs.Get(context.Background(), nestedPutStageName+"/c1/b")
	require.Error(t, err)
	assert.Contains(t, bs.String(), "localfs-atomic@/store")
}

func setupStores(t testing.TB) []storage.Store {
	t.Helper()

	makeFs := func() afero.Fs {
		fs := afero.NewBasePathFs(afero.NewMemMapFs(), "/store")
		require.NoError(t, afero.WriteFile(fs, "sixteentons", []byte("this is the text"), 0600))
		require.NoError(t, afero.WriteFile(fs, "seventeentons", []byte("this is the text for another thing"), 0600))
		require.NoError(t, fs.MkdirAll("dir", 0700))
		require.NoError(t, afero.WriteFile(fs, "dir/seventeentons", []byte("this is the text for another thing"), 0600))
		return fs
	}

	return []storage.Store{New(makeFs()), NewAtomic(makeFs())}
}

func assertContent(t testing.TB, bs storage.Store, key, expected string) {
	rdr, err := bs.Get(context.Background(), key)
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, expected, string(b))
}

func fakeFile(t testing.TB, fs afero.Fs, file string) {
	require.NoError(t, afero.WriteFile(fs, file, []byte("this is the text"), 0600))
}

func TestKeysPrefix(t *testing.T) {
	fs := afero.NewBasePathFs(afero.NewMemMapFs(), "/store")
	err := fs.MkdirAll("/a/b/c", 0777)
	require.NoError(t, err)
	err = fs.MkdirAll("/a/d", 0777)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		fakeFile(t, fs, "/a/b/c/e"+strconv.Itoa(i))
		fakeFile(t, fs, "/a/d/f"+strconv.Itoa(i))
	}

	store := New(fs)

	var (
		keys  []string
		next  string
		all   []string
		pages int
	)

	search := "a/"
	for {
		keys, next, err = store.KeysPrefix(context.Background(), next, search, "", 3)
		require.NoError(t, err)
		all = append(all, keys...)
		pages++
		if next == "" {
			break
		}
		assert.Len(t, keys, 3)
	}
	assert.Len(t, all, 20)
	assert.Equal(t, 7, pages)

	keys, next, err = store.KeysPrefix(context.Background(), "", "a/d/", "", 0)
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, keys, 10)

	keys, _, err = store.KeysPrefix(context.Background(), "", "a/", "/", 0)
	require.NoError(t, err)
	assert.Empty(t, keys, "delimiter excludes nested keys")

	all, err = storage.ListPrefix(context.Background(), store, "a/b/")
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
