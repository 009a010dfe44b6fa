package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	errs "git.home.luguber.info/inful/gitp4setup/internal/errors"
	"git.home.luguber.info/inful/gitp4setup/internal/logfields"
	"git.home.luguber.info/inful/gitp4setup/internal/metrics"
	"git.home.luguber.info/inful/gitp4setup/internal/provision"
	"git.home.luguber.info/inful/gitp4setup/internal/runner"
	"git.home.luguber.info/inful/gitp4setup/internal/workspace"
)

// Env carries the process-level dependencies of a run. Zero values select
// the real implementations.
type Env struct {
	Stderr      io.Writer
	Runner      runner.Runner
	Environment workspace.Environment
}

// Run provisions the workspace and returns the process exit code.
func (c *CLI) Run(ctx context.Context, env Env) int {
	stderr := env.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, cfgPath, err := c.loadConfig()
	if err != nil {
		logger := NewLogger(stderr, defaultLogging(), c.Verbose)
		return errs.NewCLIErrorAdapter(c.Verbose, logger).WithOutput(stderr).Handle(errs.ConfigError(cfgPath, err))
	}

	logger := NewLogger(stderr, cfg.Logging, c.Verbose)
	adapter := errs.NewCLIErrorAdapter(c.Verbose, logger).WithOutput(stderr)

	p := provision.New(cfg).WithLogger(logger)
	if env.Runner != nil {
		p.WithRunner(env.Runner)
	}
	if env.Environment != nil {
		p.WithEnvironment(env.Environment)
	}

	var reg *prom.Registry
	if c.MetricsFile != "" {
		reg = prom.NewRegistry()
		p.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	res, err := p.Provision(ctx, provision.Request{
		ClientName: c.Client,
		DepotPath:  c.Depot,
		Update:     c.Update,
	})

	if reg != nil {
		if werr := metrics.WriteTextfile(c.MetricsFile, reg); werr != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(werr))
		}
	}

	if err != nil {
		return adapter.Handle(err)
	}

	logger.Info("Done",
		logfields.RunID(res.RunID),
		slog.String("perforce_root", res.Context.PerforceRoot),
		slog.String("git_root", res.Context.GitRoot),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return 0
}
