package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects the user-facing message (for tests).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor determines the exit code for an error. Every failure maps to 1;
// scripts wrapping the tool only distinguish success from failure.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if pe, ok := As(err); ok {
		return a.formatProvision(pe)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatProvision(err *ProvisionError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	if err.Category != CategoryValidation && err.Category != CategoryConfig {
		msg = fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
	if reason, ok := err.Context["reason"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, reason)
	}
	if path, ok := err.Context["path"]; ok {
		msg = fmt.Sprintf("%s (%v)", msg, path)
	}
	return msg
}

// Handle logs the error, prints the user-facing message and returns the exit code.
func (a *CLIErrorAdapter) Handle(err error) int {
	if err == nil {
		return 0
	}

	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	if pe, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(pe.Category)),
			slog.String("severity", string(pe.Severity)),
		}
		keys := make([]string, 0, len(pe.Context))
		for k := range pe.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, slog.Any(k, pe.Context[k]))
		}
		if pe.Cause != nil {
			attrs = append(attrs, slog.String("error", pe.Cause.Error()))
		}
		a.logger.LogAttrs(context.Background(), slog.LevelError, pe.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}
