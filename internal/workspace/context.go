package workspace

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the Perforce client-spec date format (YYYY/MM/DD hh:mm:ss).
const TimestampLayout = "2006/01/02 15:04:05"

// Environment exposes the ambient process state a Context is derived from.
type Environment interface {
	Getwd() (string, error)
	Username() (string, error)
	Hostname() (string, error)
	Now() time.Time
}

// SystemEnvironment reads the real process environment.
type SystemEnvironment struct{}

func (SystemEnvironment) Getwd() (string, error)    { return os.Getwd() }
func (SystemEnvironment) Hostname() (string, error) { return os.Hostname() }
func (SystemEnvironment) Now() time.Time            { return time.Now() }

// Username resolves the login name, preferring the usual environment variables
// over the password database the way login shells do.
func (SystemEnvironment) Username() (string, error) {
	for _, key := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	return u.Username, nil
}

// Layout names the fixed pieces of the directory scheme.
type Layout struct {
	PerforceDir  string
	GitDir       string
	ClientSuffix string
	MarkerFile   string
}

// Context is the derived configuration of one provisioning run.
type Context struct {
	BaseName     string // client name as supplied by the operator
	ClientName   string // BaseName + suffix; the Perforce client that gets registered
	DepotPath    string
	Timestamp    string
	Owner        string
	Host         string
	WorkDir      string
	PerforceRoot string
	GitRoot      string
	MarkerFile   string
}

// Derive computes the Context for baseName/depotPath. It does not touch the filesystem.
func Derive(env Environment, layout Layout, baseName, depotPath string) (*Context, error) {
	if strings.TrimSpace(baseName) == "" {
		return nil, fmt.Errorf("client name must not be empty")
	}
	if strings.ContainsAny(baseName, `/\`) || baseName == "." || baseName == ".." {
		return nil, fmt.Errorf("client name %q must not contain path separators", baseName)
	}
	if depotPath == "" {
		return nil, fmt.Errorf("depot path must not be empty")
	}

	cwd, err := env.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	owner, err := env.Username()
	if err != nil {
		return nil, err
	}
	host, err := env.Hostname()
	if err != nil {
		return nil, fmt.Errorf("resolve hostname: %w", err)
	}

	client := baseName + layout.ClientSuffix
	return &Context{
		BaseName:     baseName,
		ClientName:   client,
		DepotPath:    depotPath,
		Timestamp:    env.Now().Format(TimestampLayout),
		Owner:        owner,
		Host:         host,
		WorkDir:      cwd,
		PerforceRoot: filepath.Join(cwd, layout.PerforceDir, client),
		GitRoot:      filepath.Join(cwd, layout.GitDir, baseName),
		MarkerFile:   layout.MarkerFile,
	}, nil
}

// Roots returns the Perforce and Git roots in provisioning order (git first).
func (c *Context) Roots() []string {
	return []string{c.GitRoot, c.PerforceRoot}
}

// MarkerPath returns the marker file location inside root.
func (c *Context) MarkerPath(root string) string {
	return filepath.Join(root, c.MarkerFile)
}

// StaticEnvironment is a fixed Environment for tests.
type StaticEnvironment struct {
	Dir  string
	User string
	Host string
	Time time.Time
}

func (s StaticEnvironment) Getwd() (string, error)    { return s.Dir, nil }
func (s StaticEnvironment) Username() (string, error) { return s.User, nil }
func (s StaticEnvironment) Hostname() (string, error) { return s.Host, nil }
func (s StaticEnvironment) Now() time.Time            { return s.Time }
