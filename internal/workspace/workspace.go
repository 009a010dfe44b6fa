package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/gitp4setup/internal/logfields"
)

// FS is the filesystem surface the provisioner needs.
type FS interface {
	// Mkdir creates path and any missing parents. It fails with fs.ErrExist
	// when path itself already exists.
	Mkdir(path string) error
	Exists(path string) (bool, error)
	WriteFile(path string, data []byte) error
}

// OSFS implements FS on the local disk.
type OSFS struct{}

func (OSFS) Mkdir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.Mkdir(path, 0o750)
}

func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (OSFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// MarkerContent is the single-line body of a marker file.
func MarkerContent(client string) []byte {
	return []byte("P4CLIENT=" + client + "\n")
}

// Manager handles workspace directory and marker operations for one Context.
type Manager struct {
	fs     FS
	ctx    *Context
	logger *slog.Logger
}

// NewManager creates a workspace manager. A nil fs uses OSFS; a nil logger uses slog.Default().
func NewManager(fsys FS, wctx *Context, logger *slog.Logger) *Manager {
	if fsys == nil {
		fsys = OSFS{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{fs: fsys, ctx: wctx, logger: logger}
}

// Exists reports whether root exists.
func (m *Manager) Exists(root string) (bool, error) {
	return m.fs.Exists(root)
}

// Create creates a workspace root. It fails if root already exists.
func (m *Manager) Create(root string) error {
	if err := m.fs.Mkdir(root); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", root, err)
	}
	m.logger.Info("Created workspace directory", logfields.Path(root))
	return nil
}

// WriteMarker writes (or overwrites) the marker file inside root and returns its path.
func (m *Manager) WriteMarker(root string) (string, error) {
	path := m.ctx.MarkerPath(root)
	if err := m.fs.WriteFile(path, MarkerContent(m.ctx.ClientName)); err != nil {
		return "", fmt.Errorf("failed to write marker file %s: %w", path, err)
	}
	m.logger.Debug("Wrote marker file", logfields.Path(path), logfields.Client(m.ctx.ClientName))
	return path, nil
}
