package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up in the invocation directory.
const DefaultPath = "gitp4setup.yaml"

// Config represents the application configuration
type Config struct {
	Tools   ToolsConfig   `yaml:"tools"`
	Layout  LayoutConfig  `yaml:"layout"`
	Logging LoggingConfig `yaml:"logging"`
}

// ToolsConfig locates the external binaries and controls how their exit status is treated.
type ToolsConfig struct {
	P4  string `yaml:"p4,omitempty"`
	Git string `yaml:"git,omitempty"`
	// CheckExitStatus turns non-zero exits of p4 / git p4 into failures.
	// Pointer so an explicit false survives default application.
	CheckExitStatus *bool `yaml:"check_exit_status,omitempty"`
}

// LayoutConfig controls the directory and naming scheme of a provisioned workspace.
type LayoutConfig struct {
	PerforceDir  string `yaml:"perforce_dir,omitempty"`
	GitDir       string `yaml:"git_dir,omitempty"`
	ClientSuffix string `yaml:"client_suffix,omitempty"`
	MarkerFile   string `yaml:"marker_file,omitempty"`
}

// LoggingConfig represents logging output configuration
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// ExitStatusChecked reports whether tool exit codes must be enforced.
func (t ToolsConfig) ExitStatusChecked() bool {
	return t.CheckExitStatus == nil || *t.CheckExitStatus
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg = &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}
