// Package storage is the boundary to the removable medium the track files
// live on, plus the persistent track counter kept next to them.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotExist is returned when a named file is absent.
var ErrNotExist = fs.ErrNotExist

// FileInfo is one entry of a directory listing.
type FileInfo struct {
	Name  string
	Size  int64
	IsDir bool
}

// Storage is the set of primitives the logger needs from the medium.
// Names are slash-separated and relative to the medium root.
type Storage interface {
	Read(name string) ([]byte, error)
	// Write replaces the file content.
	Write(name string, data []byte) error
	// Append creates the file when needed.
	Append(name string, data []byte) error
	Rename(from, to string) error
	Exists(name string) bool
	Remove(name string) error
	List(dir string) ([]FileInfo, error)
}

// FS is a Storage rooted at a directory of the host file system, e.g. the
// mount point of the SD card.
type FS struct {
	root string
}

// NewFS creates the root directory when missing.
func NewFS(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	return &FS{root: root}, nil
}

// Root returns the host directory backing the storage.
func (s *FS) Root() string { return s.root }

func (s *FS) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(name, "/")))
}

func (s *FS) Read(name string) ([]byte, error) {
	return os.ReadFile(s.path(name))
}

func (s *FS) Write(name string, data []byte) error {
	return os.WriteFile(s.path(name), data, 0644)
}

func (s *FS) Append(name string, data []byte) error {
	f, err := os.OpenFile(s.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s for appending: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", name, err)
	}
	return f.Close()
}

func (s *FS) Rename(from, to string) error {
	return os.Rename(s.path(from), s.path(to))
}

func (s *FS) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *FS) Remove(name string) error {
	return os.Remove(s.path(name))
}

func (s *FS) List(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.path(dir))
	if err != nil {
		return nil, err
	}
	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		fi := FileInfo{Name: e.Name(), IsDir: e.IsDir()}
		if info, err := e.Info(); err == nil {
			fi.Size = info.Size()
		}
		out = append(out, fi)
	}
	return out, nil
}

// Memory is an in-process Storage. It backs dry runs and tests.
type Memory struct {
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func clean(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+name)), "/")
}

func (m *Memory) Read(name string) ([]byte, error) {
	data, ok := m.files[clean(name)]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(name string, data []byte) error {
	m.files[clean(name)] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Append(name string, data []byte) error {
	n := clean(name)
	m.files[n] = append(m.files[n], data...)
	return nil
}

func (m *Memory) Rename(from, to string) error {
	f := clean(from)
	data, ok := m.files[f]
	if !ok {
		return fmt.Errorf("rename %s: %w", from, ErrNotExist)
	}
	delete(m.files, f)
	m.files[clean(to)] = data
	return nil
}

func (m *Memory) Exists(name string) bool {
	_, ok := m.files[clean(name)]
	return ok
}

func (m *Memory) Remove(name string) error {
	n := clean(name)
	if _, ok := m.files[n]; !ok {
		return fmt.Errorf("remove %s: %w", name, ErrNotExist)
	}
	delete(m.files, n)
	return nil
}

// List returns the files directly below dir, sorted by name.
func (m *Memory) List(dir string) ([]FileInfo, error) {
	prefix := clean(dir)
	if prefix != "" {
		prefix += "/"
	}
	var out []FileInfo
	for name, data := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		out = append(out, FileInfo{Name: rest, Size: int64(len(data))})
	}
	if out == nil && prefix != "" {
		return nil, fmt.Errorf("list %s: %w", dir, ErrNotExist)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// IsNotExist reports whether err signals a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

var (
	_ Storage = (*FS)(nil)
	_ Storage = (*Memory)(nil)
)
