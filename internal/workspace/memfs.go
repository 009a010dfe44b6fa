package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// MemFS is an in-memory FS for tests. It records every mutating call.
type MemFS struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string][]byte
	calls []string
}

// NewMemFS returns an empty MemFS with the given directories pre-created.
func NewMemFS(existing ...string) *MemFS {
	m := &MemFS{dirs: map[string]bool{}, files: map[string][]byte{}}
	for _, d := range existing {
		m.dirs[filepath.Clean(d)] = true
	}
	return m
}

func (m *MemFS) Mkdir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.calls = append(m.calls, "mkdir "+path)
	if m.dirs[path] {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	m.dirs[path] = true
	return nil
}

func (m *MemFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return m.dirs[path] || isFile, nil
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.calls = append(m.calls, "write "+path)
	if !m.dirs[filepath.Dir(path)] {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// File returns the content written to path.
func (m *MemFS) File(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

// Calls returns the recorded mutating calls in order.
func (m *MemFS) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MkdirCalls counts Mkdir invocations.
func (m *MemFS) MkdirCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, "mkdir ") {
			n++
		}
	}
	return n
}
