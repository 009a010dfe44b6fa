package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitp4setup/internal/runner"
	"git.home.luguber.info/inful/gitp4setup/internal/workspace"
)

func parseCLI(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("gitp4setup"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func testEnv(dir string, r runner.Runner, stderr *bytes.Buffer) Env {
	return Env{
		Stderr: stderr,
		Runner: r,
		Environment: workspace.StaticEnvironment{
			Dir:  dir,
			User: "alice",
			Host: "build-01",
			Time: time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC),
		},
	}
}

func TestParseFlags(t *testing.T) {
	cli := parseCLI(t, "--update", "-v", "--metrics-file", "m.prom", "dev-main", "//depot/main")
	assert.Equal(t, "dev-main", cli.Client)
	assert.Equal(t, "//depot/main", cli.Depot)
	assert.True(t, cli.Update)
	assert.True(t, cli.Verbose)
	assert.True(t, filepath.IsAbs(cli.MetricsFile))
}

func TestParseRequiresPositionals(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("gitp4setup"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"dev-main"})
	assert.Error(t, err)
}

func TestRunProvisionsWorkspace(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.FakeRunner{}
	var stderr bytes.Buffer

	cli := parseCLI(t, "dev-main", "//depot/main")
	code := cli.Run(context.Background(), testEnv(dir, fake, &stderr))
	require.Equal(t, 0, code, stderr.String())

	marker, err := os.ReadFile(filepath.Join(dir, "git", "dev-main", ".p4config"))
	require.NoError(t, err)
	assert.Equal(t, "P4CLIENT=dev-main-git\n", string(marker))

	marker, err = os.ReadFile(filepath.Join(dir, "perforce", "dev-main-git", ".p4config"))
	require.NoError(t, err)
	assert.Equal(t, "P4CLIENT=dev-main-git\n", string(marker))

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "git", calls[0].Command.Name)
	assert.Equal(t, "p4", calls[1].Command.Name)
	assert.Contains(t, calls[1].Stdin, "Client: dev-main-git")
}

func TestRunFailsWhenWorkspaceExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "git", "dev-main"), 0o755))
	fake := &runner.FakeRunner{}
	var stderr bytes.Buffer

	cli := parseCLI(t, "dev-main", "//depot/main")
	code := cli.Run(context.Background(), testEnv(dir, fake, &stderr))
	assert.Equal(t, 1, code)
	assert.Empty(t, fake.Calls())
	assert.Contains(t, stderr.String(), filepath.Join(dir, "git", "dev-main"))
}

func TestRunToolFailureExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.FakeRunner{
		RunFunc: func(_ context.Context, cmd runner.Command, _ string) (*runner.Output, error) {
			if cmd.Name == "git" {
				return &runner.Output{Combined: []byte("fatal: depot unreachable\n"), ExitCode: 2},
					&runner.ExitError{Command: cmd.String(), Code: 2, Err: errors.New("exit status 2")}
			}
			return &runner.Output{}, nil
		},
	}
	var stderr bytes.Buffer

	cli := parseCLI(t, "dev-main", "//depot/main")
	code := cli.Run(context.Background(), testEnv(dir, fake, &stderr))
	assert.Equal(t, 1, code)
	assert.Len(t, fake.Calls(), 1)
}

func TestRunExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"tools:\n  p4: /opt/p4\n  git: /opt/git\nlayout:\n  perforce_dir: p4ws\n  client_suffix: -bridge\n"), 0o600))
	fake := &runner.FakeRunner{}
	var stderr bytes.Buffer

	cli := parseCLI(t, "-c", cfgPath, "dev-main", "//depot/main")
	code := cli.Run(context.Background(), testEnv(dir, fake, &stderr))
	require.Equal(t, 0, code, stderr.String())

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/opt/git", calls[0].Command.Name)
	assert.Equal(t, "/opt/p4", calls[1].Command.Name)
	assert.DirExists(t, filepath.Join(dir, "p4ws", "dev-main-bridge"))
}

func TestRunMissingExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.FakeRunner{}
	var stderr bytes.Buffer

	cli := parseCLI(t, "-c", filepath.Join(dir, "absent.yaml"), "dev-main", "//depot/main")
	code := cli.Run(context.Background(), testEnv(dir, fake, &stderr))
	assert.Equal(t, 1, code)
	assert.Empty(t, fake.Calls())
	assert.Contains(t, stderr.String(), "absent.yaml")
}

func TestRunWritesMetricsFile(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "run.prom")
	var stderr bytes.Buffer

	cli := parseCLI(t, "--metrics-file", metricsPath, "dev-main", "//depot/main")
	code := cli.Run(context.Background(), testEnv(dir, &runner.FakeRunner{}, &stderr))
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `gitp4setup_run_outcomes_total{outcome="success"} 1`))
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, defaultLogging(), false)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = NewLogger(&buf, defaultLogging(), true)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
