package config

// Default layout:
// <cwd>/perforce/<client>-git and <cwd>/git/<client>, each holding a .p4config.
const (
	DefaultP4Binary     = "p4"
	DefaultGitBinary    = "git"
	DefaultPerforceDir  = "perforce"
	DefaultGitDir       = "git"
	DefaultClientSuffix = "-git"
	DefaultMarkerFile   = ".p4config"
)

func applyDefaults(cfg *Config) {
	if cfg.Tools.P4 == "" {
		cfg.Tools.P4 = DefaultP4Binary
	}
	if cfg.Tools.Git == "" {
		cfg.Tools.Git = DefaultGitBinary
	}
	if cfg.Tools.CheckExitStatus == nil {
		enabled := true
		cfg.Tools.CheckExitStatus = &enabled
	}
	if cfg.Layout.PerforceDir == "" {
		cfg.Layout.PerforceDir = DefaultPerforceDir
	}
	if cfg.Layout.GitDir == "" {
		cfg.Layout.GitDir = DefaultGitDir
	}
	if cfg.Layout.ClientSuffix == "" {
		cfg.Layout.ClientSuffix = DefaultClientSuffix
	}
	if cfg.Layout.MarkerFile == "" {
		cfg.Layout.MarkerFile = DefaultMarkerFile
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
