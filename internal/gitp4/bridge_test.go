package gitp4

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitp4setup/internal/runner"
)

func TestCloneSource(t *testing.T) {
	assert.Equal(t, "//depot-foo/dev-stream/...@all", CloneSource("//depot-foo/dev-stream"))
	assert.Equal(t, "//depot-foo/dev-stream/...@all", CloneSource("//depot-foo/dev-stream/"))
}

func TestBridge_CloneStreamsLines(t *testing.T) {
	fake := &runner.FakeRunner{RunFunc: func(_ context.Context, cmd runner.Command, _ string) (*runner.Output, error) {
		return &runner.Output{Combined: []byte("Importing from //depot/main@all into /ws/git/dev\nImport destination: refs/remotes/p4/master\n  \n")}, nil
	}}
	var logs bytes.Buffer
	b := NewBridge(BridgeConfig{GitPath: "/usr/bin/git", CheckExitStatus: true}, fake, slog.New(slog.NewTextHandler(&logs, nil)))

	res, err := b.Clone(context.Background(), "//depot/main", "/ws/git/dev")
	require.NoError(t, err)
	assert.Equal(t, "//depot/main/...@all", res.Source)
	assert.Equal(t, 3, res.Lines)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/usr/bin/git", calls[0].Command.Name)
	assert.Equal(t, []string{"p4", "clone", "--verbose", "//depot/main/...@all", "/ws/git/dev"}, calls[0].Command.Args)
	assert.Contains(t, logs.String(), "level=INFO msg=\"Import destination: refs/remotes/p4/master\"")
}

func TestBridge_ExitStatusPolicy(t *testing.T) {
	failing := func(_ context.Context, cmd runner.Command, _ string) (*runner.Output, error) {
		out := &runner.Output{Combined: []byte("git: 'p4' is not a git command.\n"), ExitCode: 1}
		return out, &runner.ExitError{Command: cmd.String(), Code: 1, Output: out.Combined}
	}

	_, err := NewBridge(BridgeConfig{CheckExitStatus: true}, &runner.FakeRunner{RunFunc: failing}, nil).
		Clone(context.Background(), "//depot/main", "/ws/git/dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git command")

	res, err := NewBridge(BridgeConfig{CheckExitStatus: false}, &runner.FakeRunner{RunFunc: failing}, nil).
		Clone(context.Background(), "//depot/main", "/ws/git/dev")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, writeFile(filepath.Join(dir, "README"), "imported\n"))
	_, err = wt.Add("README")
	require.NoError(t, err)
	hash, err := wt.Commit("Initial import of //depot/main\n\n[git-p4: depot-paths = \"//depot/main/\": change = 1]", &git.CommitOptions{
		Author: &object.Signature{Name: "alice", Email: "alice@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	summary, err := Inspect(dir)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), summary.Head)
	assert.Equal(t, "master", summary.Branch)
	assert.False(t, summary.Detached)
	assert.Equal(t, "Initial import of //depot/main", summary.Subject)
}

func TestInspect_NotARepository(t *testing.T) {
	_, err := Inspect(t.TempDir())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "open repository"))
}
