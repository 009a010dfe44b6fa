package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables overriding tool locations.
const (
	EnvP4Path  = "GITP4SETUP_P4"
	EnvGitPath = "GITP4SETUP_GIT"
)

// loadEnvFile loads environment variables from .env/.env.local files.
// It attempts each supported filename in order and stops at the first successfully parsed file.
// godotenv never overwrites variables already present in the process environment,
// so P4PORT/P4USER exported by the shell win over the file.
func loadEnvFile() {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", envPath, err)
			continue
		}
		return
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvP4Path); v != "" {
		cfg.Tools.P4 = v
	}
	if v := os.Getenv(EnvGitPath); v != "" {
		cfg.Tools.Git = v
	}
}
