package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateConfig checks the layout invariants the provisioner relies on.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	for name, dir := range map[string]string{
		"layout.perforce_dir": cfg.Layout.PerforceDir,
		"layout.git_dir":      cfg.Layout.GitDir,
	} {
		if filepath.IsAbs(dir) || strings.HasPrefix(filepath.Clean(dir), "..") {
			return fmt.Errorf("%s must be a relative path inside the invocation directory: %q", name, dir)
		}
	}
	p4Dir, gitDir := filepath.Clean(cfg.Layout.PerforceDir), filepath.Clean(cfg.Layout.GitDir)
	if p4Dir == gitDir {
		return fmt.Errorf("layout.perforce_dir and layout.git_dir must differ (both %q)", cfg.Layout.GitDir)
	}
	if nested(p4Dir, gitDir) || nested(gitDir, p4Dir) {
		return fmt.Errorf("layout.perforce_dir %q and layout.git_dir %q must not contain one another", cfg.Layout.PerforceDir, cfg.Layout.GitDir)
	}
	if strings.ContainsAny(cfg.Layout.ClientSuffix, `/\`) {
		return fmt.Errorf("layout.client_suffix must not contain path separators: %q", cfg.Layout.ClientSuffix)
	}
	if strings.ContainsAny(cfg.Layout.MarkerFile, `/\`) {
		return fmt.Errorf("layout.marker_file must be a bare file name: %q", cfg.Layout.MarkerFile)
	}
	return nil
}

// nested reports whether the cleaned relative dir inner lies inside outer.
func nested(outer, inner string) bool {
	if outer == "." {
		return true
	}
	return strings.HasPrefix(inner, outer+string(filepath.Separator))
}
