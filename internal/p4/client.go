package p4

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/gitp4setup/internal/logfields"
	"git.home.luguber.info/inful/gitp4setup/internal/runner"
)

// ClientConfig holds configuration for the p4 CLI wrapper.
type ClientConfig struct {
	// P4Path is the path to the p4 binary
	P4Path string
	// MarkerFile is exported as P4CONFIG, unless the caller already set one,
	// so p4 picks up the marker written next to Root.
	MarkerFile string
	// CheckExitStatus turns a non-zero p4 exit into an error.
	CheckExitStatus bool
}

// Client wraps the p4 command-line tool.
type Client struct {
	config ClientConfig
	runner runner.Runner
	logger *slog.Logger
}

// NewClient creates a p4 client. A nil runner uses runner.ExecRunner.
func NewClient(cfg ClientConfig, r runner.Runner, logger *slog.Logger) *Client {
	if cfg.P4Path == "" {
		cfg.P4Path = "p4"
	}
	if r == nil {
		r = runner.NewExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{config: cfg, runner: r, logger: logger}
}

// ApplyResult is the outcome of a `p4 client -i` call.
type ApplyResult struct {
	Output   string
	ExitCode int
}

// ApplySpec creates or updates the client described by specText via
// `p4 client -i`, running inside dir.
func (c *Client) ApplySpec(ctx context.Context, client, specText, dir string) (*ApplyResult, error) {
	c.logger.Debug("Client specification", logfields.Client(client), slog.String("spec", specText))

	env := []string{"P4CLIENT=" + client}
	if c.config.MarkerFile != "" && os.Getenv("P4CONFIG") == "" {
		env = append(env, "P4CONFIG="+c.config.MarkerFile)
	}

	cmd := runner.Command{
		Name:  c.config.P4Path,
		Args:  []string{"client", "-i"},
		Dir:   dir,
		Env:   env,
		Stdin: strings.NewReader(specText),
	}
	out, err := c.runner.Run(ctx, cmd)
	if out != nil {
		c.logger.Debug("p4 client output",
			logfields.Tool("p4"),
			logfields.ExitCode(out.ExitCode),
			slog.String("output", strings.TrimSpace(string(out.Combined))))
	}
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) && !c.config.CheckExitStatus {
			c.logger.Warn("p4 client exited with non-zero status; ignoring", logfields.Client(client), logfields.Error(err))
		} else {
			return nil, fmt.Errorf("p4 client -i for %s: %w", client, err)
		}
	}

	res := &ApplyResult{}
	if out != nil {
		res.Output = strings.TrimSpace(string(out.Combined))
		res.ExitCode = out.ExitCode
	}
	c.logger.Info("Perforce client registered", logfields.Client(client), logfields.Path(dir))
	return res, nil
}
