// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrPrefixPathTraversal    = errors.New("prefix contains path separator or null byte")
	ErrScopeClosed            = errors.New("temp file scope already closed")
)

// Scope owns a set of temporary files and removes all of them on Close.
// File names come from os.CreateTemp, so concurrent scopes sharing a
// directory never collide. A Scope is safe for concurrent use.
//
// Typical use:
//
//	scope := fileutil.NewScope("", "pdfgate")
//	defer scope.Close()
//	out, err := scope.Create("pdf")
type Scope struct {
	dir    string
	prefix string

	mu     sync.Mutex
	paths  []string
	closed bool
}

// NewScope returns a Scope creating files in dir (os.TempDir() when empty)
// with names starting with prefix.
func NewScope(dir, prefix string) *Scope {
	return &Scope{dir: dir, prefix: prefix}
}

// Create makes a new empty file with the given extension and returns its
// path. The file is closed; callers reopen it as needed.
func (s *Scope) Create(extension string) (string, error) {
	f, err := s.open(extension)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), nil
}

// Write makes a new file with the given extension, writes content to it
// in full and closes it. The file belongs to the scope even when writing
// fails.
func (s *Scope) Write(content, extension string) (string, error) {
	f, err := s.open(extension)
	if err != nil {
		return "", err
	}

	if _, writeErr := f.WriteString(content); writeErr != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	return f.Name(), nil
}

// open creates and records a file. Recording happens under the lock
// before returning so Close always sees it.
func (s *Scope) open(extension string) (*os.File, error) {
	if err := ValidateExtension(extension); err != nil {
		return nil, err
	}
	if strings.ContainsAny(s.prefix, "/\\\x00") {
		return nil, ErrPrefixPathTraversal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrScopeClosed
	}

	pattern := "*." + extension
	if s.prefix != "" {
		pattern = s.prefix + "-" + pattern
	}

	f, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	s.paths = append(s.paths, f.Name())
	return f, nil
}

// Paths returns the files currently owned by the scope.
func (s *Scope) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Close removes every file created through the scope. Files already gone
// are ignored. Calling Close more than once is a no-op.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "pdfgate" -> false (name)
//   - "./pdfgate.yaml" -> true (relative path)
//   - "/etc/pdfgate/pdfgate.yaml" -> true (absolute)
//   - "C:\pdfgate\config.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
