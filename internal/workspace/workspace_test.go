package workspace

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	cwd  string
	user string
	host string
	now  time.Time
	err  error
}

func (f fakeEnv) Getwd() (string, error)    { return f.cwd, f.err }
func (f fakeEnv) Username() (string, error) { return f.user, nil }
func (f fakeEnv) Hostname() (string, error) { return f.host, nil }
func (f fakeEnv) Now() time.Time            { return f.now }

var testLayout = Layout{
	PerforceDir:  "perforce",
	GitDir:       "git",
	ClientSuffix: "-git",
	MarkerFile:   ".p4config",
}

func testEnv(cwd string) fakeEnv {
	return fakeEnv{
		cwd:  cwd,
		user: "alice",
		host: "build-01",
		now:  time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC),
	}
}

func TestDerive(t *testing.T) {
	wctx, err := Derive(testEnv("/home/alice/ws"), testLayout, "dev-foo-alice", "//depot-foo/dev-stream")
	require.NoError(t, err)

	assert.Equal(t, "dev-foo-alice", wctx.BaseName)
	assert.Equal(t, "dev-foo-alice-git", wctx.ClientName)
	assert.Equal(t, "//depot-foo/dev-stream", wctx.DepotPath)
	assert.Equal(t, "2024/03/07 09:05:01", wctx.Timestamp)
	assert.Equal(t, "alice", wctx.Owner)
	assert.Equal(t, "build-01", wctx.Host)
	assert.Equal(t, filepath.Join("/home/alice/ws", "perforce", "dev-foo-alice-git"), wctx.PerforceRoot)
	assert.Equal(t, filepath.Join("/home/alice/ws", "git", "dev-foo-alice"), wctx.GitRoot)
	assert.Equal(t, filepath.Join(wctx.GitRoot, ".p4config"), wctx.MarkerPath(wctx.GitRoot))
}

func TestDerive_RootsAreDistinctChildrenOfWorkDir(t *testing.T) {
	for _, name := range []string{"a", "dev", "dev-git", "x.y_z", "perforce", "git"} {
		wctx, err := Derive(testEnv("/work"), testLayout, name, "//depot/main")
		require.NoError(t, err, name)

		assert.NotEqual(t, wctx.PerforceRoot, wctx.GitRoot, name)
		for _, root := range wctx.Roots() {
			rel, err := filepath.Rel("/work", root)
			require.NoError(t, err)
			assert.False(t, strings.HasPrefix(rel, ".."), "root %s escapes work dir", root)
			assert.NotEqual(t, ".", rel)
		}
		assert.Equal(t, wctx.ClientName, name+"-git")
	}
}

func TestDerive_Errors(t *testing.T) {
	env := testEnv("/work")
	_, err := Derive(env, testLayout, "", "//depot/main")
	require.Error(t, err)
	_, err = Derive(env, testLayout, "a/b", "//depot/main")
	require.Error(t, err)
	_, err = Derive(env, testLayout, "dev", "")
	require.Error(t, err)

	env.err = errors.New("cwd gone")
	_, err = Derive(env, testLayout, "dev", "//depot/main")
	require.ErrorContains(t, err, "cwd gone")
}

func TestOSFS_MkdirFailsWhenPresent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "git", "dev")
	fsys := OSFS{}

	require.NoError(t, fsys.Mkdir(root))
	ok, err := fsys.Exists(root)
	require.NoError(t, err)
	assert.True(t, ok)

	err = fsys.Mkdir(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestManager_WriteMarkerOverwrites(t *testing.T) {
	base := t.TempDir()
	wctx, err := Derive(testEnv(base), testLayout, "dev", "//depot/main")
	require.NoError(t, err)

	var logs bytes.Buffer
	mgr := NewManager(nil, wctx, slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	require.NoError(t, mgr.Create(wctx.GitRoot))

	marker := wctx.MarkerPath(wctx.GitRoot)
	require.NoError(t, os.WriteFile(marker, []byte("P4CLIENT=stale\nP4PORT=old:1666\n"), 0o600))

	path, err := mgr.WriteMarker(wctx.GitRoot)
	require.NoError(t, err)
	assert.Equal(t, marker, path)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "P4CLIENT=dev-git\n", string(data))
	assert.Contains(t, logs.String(), "Created workspace directory")
}

func TestManager_CreateExisting(t *testing.T) {
	wctx, err := Derive(testEnv("/work"), testLayout, "dev", "//depot/main")
	require.NoError(t, err)

	mem := NewMemFS(wctx.GitRoot)
	mgr := NewManager(mem, wctx, nil)

	err = mgr.Create(wctx.GitRoot)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	require.NoError(t, mgr.Create(wctx.PerforceRoot))
	assert.Equal(t, 2, mem.MkdirCalls())
}
