package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/errors"
	"github.com/codetrack/codetrack/pkg/model"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// exitRecorder collects exit codes instead of exiting
type exitRecorder struct {
	codes    []int
	messages []string
}

func patchExit(t testing.TB) *exitRecorder {
	rec := &exitRecorder{}
	origExit, origFatalf, origFatalln := osExit, logFatalf, logFatalln

	osExit = func(code int) {
		rec.codes = append(rec.codes, code)
	}
	logFatalf = func(format string, args ...interface{}) {
		rec.codes = append(rec.codes, exitFailure)
		rec.messages = append(rec.messages, fmt.Sprintf(format, args...))
	}
	logFatalln = func(args ...interface{}) {
		rec.codes = append(rec.codes, exitFailure)
		rec.messages = append(rec.messages, fmt.Sprint(args...))
	}

	t.Cleanup(func() {
		osExit, logFatalf, logFatalln = origExit, origFatalf, origFatalln
	})
	return rec
}

func (r *exitRecorder) reset() {
	r.codes = nil
	r.messages = nil
}

// metadataServer fakes the commit metadata service
type metadataServer struct {
	mx      sync.Mutex
	commits map[string][]model.CommitRecord
	fail    bool
}

func newMetadataServer(t testing.TB) (*metadataServer, *httptest.Server) {
	m := &metadataServer{commits: make(map[string][]model.CommitRecord)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /repo/{id}/commit", func(w http.ResponseWriter, r *http.Request) {
		m.mx.Lock()
		defer m.mx.Unlock()
		if m.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
			return
		}
		var req model.CommitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := r.PathValue("id")
		record := model.CommitRecord{
			ID:        fmt.Sprintf("m%d", len(m.commits[id])+1),
			Message:   req.Message,
			Author:    req.UserID,
			Timestamp: time.Now().UTC(),
		}
		m.commits[id] = append(m.commits[id], record)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"commit": record})
	})
	mux.HandleFunc("GET /repo/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.mx.Lock()
		defer m.mx.Unlock()
		id := r.PathValue("id")
		commits, ok := m.commits[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"repository not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(model.History{Name: "demo-" + id, Commits: commits})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return m, srv
}

type cliFixture struct {
	root   string
	remote string
	api    string
	meta   *metadataServer
	exits  *exitRecorder
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Setenv(envConfigLocation, filepath.Join(t.TempDir(), "codetrack.yaml"))
	color.NoColor = true
	meta, srv := newMetadataServer(t)
	return &cliFixture{
		root:   t.TempDir(),
		remote: t.TempDir(),
		api:    srv.URL,
		meta:   meta,
		exits:  patchExit(t),
	}
}

// run a command against the fixture, and collect its output
func (f *cliFixture) run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args,
		"--"+pathFlag, f.root,
		"--"+remoteFlag, "file://"+filepath.ToSlash(f.remote),
		"--"+apiFlag, f.api,
		"--"+userFlag, "u1",
		"--"+logLevelFlag, "none",
		"--"+concurrencyFlag, "2",
	))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return stdout.String(), stderr.String()
}

func (f *cliFixture) writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(f.root, name)), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, name), []byte(content), 0600))
}

func (f *cliFixture) readFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.root, name))
	require.NoError(t, err)
	return string(b)
}

// resetFlags restores flag defaults: cobra keeps parsed values across executions
func resetFlags() {
	codetrackFlags = flagsT{}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

var commitIDRex = regexp.MustCompile(`commit ([0-9a-f-]{36}):`)

func TestWorkflow(t *testing.T) {
	f := newCLIFixture(t)

	out, _ := f.run(t, "init", "--repo-id", "r1")
	assert.Contains(t, out, "repository r1 initialized")

	f.writeFile(t, "a.txt", "alpha")
	f.writeFile(t, "b.txt", "beta")
	f.writeFile(t, "c.txt", "gamma")

	out, _ = f.run(t, "add", "b.txt", filepath.Join(f.root, "c.txt"))
	assert.Contains(t, out, "staged b.txt")
	assert.Contains(t, out, "staged c.txt")
	assert.Contains(t, out, "staged 2 files")

	out, _ = f.run(t, "status")
	assert.Regexp(t, `(?s)Staged for commit:\s+b\.txt\s+c\.txt\s+Untracked files:\s+a\.txt\s*$`, out)

	out, _ = f.run(t, "rm", "c.txt", "nope.txt")
	assert.Contains(t, out, "removed c.txt from staging")

	out, _ = f.run(t, "commit", "first", "version")
	matches := commitIDRex.FindStringSubmatch(out)
	require.Len(t, matches, 2, "unexpected output: %s", out)
	commitID := matches[1]
	assert.Contains(t, out, "first version (1 file)")
	require.Len(t, f.meta.commits["r1"], 1)
	assert.Equal(t, "first version", f.meta.commits["r1"][0].Message)
	assert.Equal(t, "u1", f.meta.commits["r1"][0].Author)

	out, _ = f.run(t, "log")
	assert.Contains(t, out, "History of demo-r1")
	assert.Contains(t, out, "first version")
	assert.Contains(t, out, "Author: u1")

	out, _ = f.run(t, "log", "--local")
	assert.Contains(t, out, commitID)
	assert.Contains(t, out, "Files:  b.txt")

	out, _ = f.run(t, "push")
	assert.Contains(t, out, "pushed 2 files")
	_, err := os.Stat(filepath.Join(f.remote, "r1", "commits", commitID, "b.txt"))
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(f.root, ".vcs", "commits")))
	out, _ = f.run(t, "pull")
	assert.Contains(t, out, "pulled 2 files")

	out, _ = f.run(t, "pull")
	assert.Contains(t, out, "pulled 2 files")

	f.writeFile(t, "b.txt", "beta, edited")
	out, _ = f.run(t, "revert", commitID)
	assert.Contains(t, out, "restored 1 file from commit "+commitID)
	assert.Equal(t, "beta", f.readFile(t, "b.txt"))

	assert.Empty(t, f.exits.codes, "unexpected failures: %v", f.exits.messages)
}

func TestNothingToSync(t *testing.T) {
	f := newCLIFixture(t)
	f.run(t, "init", "--repo-id", "r1")

	out, _ := f.run(t, "push")
	assert.Contains(t, out, "nothing to push")
	out, _ = f.run(t, "pull")
	assert.Contains(t, out, "nothing to pull")
	assert.Empty(t, f.exits.codes)
}

func TestCommitFailures(t *testing.T) {
	f := newCLIFixture(t)
	f.run(t, "init", "--repo-id", "r1")

	f.run(t, "commit", "empty")
	require.Equal(t, []int{exitFailure}, f.exits.codes)
	assert.Contains(t, f.exits.messages[0], "nothing to commit")
	f.exits.reset()

	f.writeFile(t, "a.txt", "alpha")
	f.run(t, "add", "a.txt")
	f.meta.fail = true
	out, stderr := f.run(t, "commit", "unrecorded")
	assert.Regexp(t, commitIDRex, out, "the local commit id is reported")
	assert.Contains(t, stderr, "the metadata service did not record it")
	assert.Contains(t, stderr, "database unavailable")
	assert.Equal(t, []int{exitPartialFailure}, f.exits.codes)
	f.exits.reset()

	out, _ = f.run(t, "status")
	assert.Contains(t, out, "a.txt", "staging is left unchanged")
	assert.NotContains(t, out, "No changes added to commit")
}

func TestAddFailures(t *testing.T) {
	f := newCLIFixture(t)
	f.run(t, "init")
	f.writeFile(t, "a.txt", "alpha")

	_, stderr := f.run(t, "add", "missing.txt")
	assert.Contains(t, stderr, "missing.txt")
	assert.Equal(t, []int{exitFailure}, f.exits.codes)
	f.exits.reset()

	out, stderr := f.run(t, "add", "a.txt", "missing.txt")
	assert.Contains(t, out, "staged 1 file")
	assert.Contains(t, stderr, "some files could not be staged")
	assert.Equal(t, []int{exitPartialFailure}, f.exits.codes)
}

func TestRevertNotFound(t *testing.T) {
	f := newCLIFixture(t)
	f.run(t, "init", "--repo-id", "r1")

	f.run(t, "revert", "never-created")
	require.Equal(t, []int{exitFailure}, f.exits.codes)
	assert.Contains(t, f.exits.messages[0], "revert failed")
}

func TestLogUnknownRepo(t *testing.T) {
	f := newCLIFixture(t)
	f.run(t, "init", "--repo-id", "unknown")

	f.run(t, "log")
	require.Equal(t, []int{exitFailure}, f.exits.codes)
	assert.Contains(t, f.exits.messages[0], "cannot fetch commit history")
}

func TestConfigSet(t *testing.T) {
	f := newCLIFixture(t)
	file := os.Getenv(envConfigLocation)

	out, _ := f.run(t, "config", "set", "--"+s3RegionFlag, "us-west-2")
	assert.Contains(t, out, "config file created in "+file)

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	var written CLIConfig
	require.NoError(t, yaml.Unmarshal(b, &written))
	assert.Equal(t, "u1", written.User)
	assert.Equal(t, "us-west-2", written.S3Region)
	assert.Equal(t, f.api, written.API)
	assert.Equal(t, 2, written.Concurrency)
	assert.Empty(t, written.Path, "the working tree is not saved")
}

func TestVersion(t *testing.T) {
	f := newCLIFixture(t)
	out, _ := f.run(t, "version")
	assert.Contains(t, out, "Version: dev")
}

func TestRemoteStore(t *testing.T) {
	dir := t.TempDir()

	store, err := remoteStore(context.Background(), &CLIConfig{})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = remoteStore(context.Background(), &CLIConfig{Remote: "file://" + filepath.ToSlash(dir)})
	require.NoError(t, err)
	assert.Contains(t, store.String(), "localfs")

	store, err = remoteStore(context.Background(), &CLIConfig{Remote: "s3://my-bucket", S3Region: "us-west-2"})
	require.NoError(t, err)
	assert.Equal(t, "s3://my-bucket", store.String())

	for _, remote := range []string{"ftp://host/dir", "s3://", "s3://bucket/prefix", "gs:///nobucket", "file://"} {
		_, err = remoteStore(context.Background(), &CLIConfig{Remote: remote})
		require.Error(t, err, remote)
		assert.True(t, errors.Is(err, status.ErrConfigMissing), remote)
	}
}

func TestRelativeToRoot(t *testing.T) {
	root := filepath.FromSlash("/work/tree")
	for _, toPin := range []struct {
		Path   string
		Expect string
	}{
		{Path: "a.txt", Expect: "a.txt"},
		{Path: "sub/../b.txt", Expect: "b.txt"},
		{Path: filepath.FromSlash("/work/tree/sub/c.txt"), Expect: "sub/c.txt"},
		{Path: filepath.FromSlash("/elsewhere/d.txt"), Expect: "../../elsewhere/d.txt"},
	} {
		fixture := toPin
		assert.Equal(t, fixture.Expect, relativeToRoot(root, fixture.Path), fixture.Path)
	}
}
