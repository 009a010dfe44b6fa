package commands

import (
	"io"
	"log/slog"

	"git.home.luguber.info/inful/gitp4setup/internal/config"
)

// NewLogger builds the run logger from logging config; verbose forces debug.
func NewLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch config.NormalizeLogLevel(string(cfg.Level)) {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if config.NormalizeLogFormat(string(cfg.Format)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultLogging() config.LoggingConfig {
	return config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}
}
