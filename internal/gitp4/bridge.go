// Package gitp4 drives the `git p4` bridge that materializes Perforce depot
// history as a Git repository.
package gitp4

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/gitp4setup/internal/logfields"
	"git.home.luguber.info/inful/gitp4setup/internal/runner"
)

// AllRevisions selects every submitted revision under a depot path.
const AllRevisions = "/...@all"

// BridgeConfig holds configuration for the git p4 wrapper.
type BridgeConfig struct {
	// GitPath is the path to the git binary
	GitPath string
	// CheckExitStatus turns a non-zero git p4 exit into an error.
	CheckExitStatus bool
}

// Bridge wraps `git p4`.
type Bridge struct {
	config BridgeConfig
	runner runner.Runner
	logger *slog.Logger
}

// NewBridge creates a bridge wrapper. A nil runner uses runner.ExecRunner.
func NewBridge(cfg BridgeConfig, r runner.Runner, logger *slog.Logger) *Bridge {
	if cfg.GitPath == "" {
		cfg.GitPath = "git"
	}
	if r == nil {
		r = runner.NewExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{config: cfg, runner: r, logger: logger}
}

// CloneResult summarizes a bridge clone.
type CloneResult struct {
	Source   string
	Lines    int
	ExitCode int
}

// CloneSource returns the depot argument passed to git p4 clone.
func CloneSource(depot string) string {
	return strings.TrimRight(depot, "/") + AllRevisions
}

// Clone runs `git p4 clone --verbose <depot>/...@all <dir>`, logging every
// output line at info level as it arrives.
func (b *Bridge) Clone(ctx context.Context, depot, dir string) (*CloneResult, error) {
	source := CloneSource(depot)
	res := &CloneResult{Source: source}

	cmd := runner.Command{
		Name: b.config.GitPath,
		Args: []string{"p4", "clone", "--verbose", source, dir},
		OnLine: func(line string) {
			res.Lines++
			b.logger.Info(strings.TrimSpace(line), logfields.Tool("git-p4"))
		},
	}

	b.logger.Info("Cloning depot with git p4", logfields.Depot(depot), logfields.Path(dir))
	out, err := b.runner.Run(ctx, cmd)
	if out != nil {
		res.ExitCode = out.ExitCode
	}
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) && !b.config.CheckExitStatus {
			b.logger.Warn("git p4 clone exited with non-zero status; ignoring", logfields.ExitCode(exitErr.Code))
			return res, nil
		}
		return res, fmt.Errorf("git p4 clone %s: %w", source, err)
	}
	return res, nil
}
