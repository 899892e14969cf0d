package fileutil_test

// Notes:
// - Scope write failures (disk full) are not tested: triggering them is
//   platform-specific. Create failures are covered with a missing directory.
// - All tests use t.TempDir() as the scope directory so leftovers are
//   observable by listing it.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/pdfgate/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension pdf",
			extension: "pdf",
			wantErr:   nil,
		},
		{
			name:      "valid extension css",
			extension: "css",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "pdf\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestScope_Create - Empty file allocation
// ---------------------------------------------------------------------------

func TestScope_Create(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scope := fileutil.NewScope(dir, "pdfgate-abc")
	defer scope.Close()

	path, err := scope.Create("pdf")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("path %q not in scope dir %q", path, dir)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "pdfgate-abc-") {
		t.Errorf("name %q does not start with prefix", base)
	}
	if !strings.HasSuffix(base, ".pdf") {
		t.Errorf("name %q does not end with .pdf", base)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want 0", info.Size())
	}
}

// ---------------------------------------------------------------------------
// TestScope_Write - File allocation with content
// ---------------------------------------------------------------------------

func TestScope_Write(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{
			name:      "stylesheet",
			content:   "body{color:red}",
			extension: "css",
		},
		{
			name:      "empty content",
			content:   "",
			extension: "css",
		},
		{
			name:      "large content",
			content:   strings.Repeat("p { margin: 0 }\n", 64*1024),
			extension: "css",
		},
		{
			name:      "unicode content",
			content:   "h1::before { content: \"café\" }",
			extension: "css",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scope := fileutil.NewScope(t.TempDir(), "pdfgate")
			defer scope.Close()

			path, err := scope.Write(tt.content, tt.extension)
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read temp file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content length = %d, want %d", len(data), len(tt.content))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestScope_Close - Release of every owned file
// ---------------------------------------------------------------------------

func TestScope_Close(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scope := fileutil.NewScope(dir, "pdfgate")

	pdf, err := scope.Create("pdf")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	css, err := scope.Write("body{}", "css")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got := len(scope.Paths()); got != 2 {
		t.Fatalf("Paths() = %d entries, want 2", got)
	}

	if err := scope.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for _, p := range []string{pdf, css} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("file %q still exists after Close", p)
		}
	}
	assertEmptyDir(t, dir)
}

func TestScope_Close_Idempotent(t *testing.T) {
	t.Parallel()

	scope := fileutil.NewScope(t.TempDir(), "pdfgate")
	if _, err := scope.Create("pdf"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := scope.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := scope.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestScope_Close_FileAlreadyRemoved(t *testing.T) {
	t.Parallel()

	scope := fileutil.NewScope(t.TempDir(), "pdfgate")
	path, err := scope.Create("pdf")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := scope.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil for missing file", err)
	}
}

func TestScope_CreateAfterClose(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scope := fileutil.NewScope(dir, "pdfgate")
	_ = scope.Close()

	_, err := scope.Create("pdf")
	if !errors.Is(err, fileutil.ErrScopeClosed) {
		t.Errorf("Create() after Close error = %v, want ErrScopeClosed", err)
	}
	assertEmptyDir(t, dir)
}

// ---------------------------------------------------------------------------
// TestScope_Errors - Allocation failures
// ---------------------------------------------------------------------------

func TestScope_InvalidExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scope := fileutil.NewScope(dir, "pdfgate")
	defer scope.Close()

	if _, err := scope.Create("../pdf"); !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("Create() error = %v, want ErrExtensionPathTraversal", err)
	}
	if _, err := scope.Write("x", ""); !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Errorf("Write() error = %v, want ErrExtensionEmpty", err)
	}
	assertEmptyDir(t, dir)
}

func TestScope_InvalidPrefix(t *testing.T) {
	t.Parallel()

	scope := fileutil.NewScope(t.TempDir(), "../escape")
	defer scope.Close()

	if _, err := scope.Create("pdf"); !errors.Is(err, fileutil.ErrPrefixPathTraversal) {
		t.Errorf("Create() error = %v, want ErrPrefixPathTraversal", err)
	}
}

func TestScope_MissingDirectory(t *testing.T) {
	t.Parallel()

	scope := fileutil.NewScope(filepath.Join(t.TempDir(), "does", "not", "exist"), "pdfgate")
	defer scope.Close()

	if _, err := scope.Create("pdf"); err == nil {
		t.Fatal("Create() expected error for missing directory, got nil")
	}
	if got := len(scope.Paths()); got != 0 {
		t.Errorf("Paths() = %d entries after failed create, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// TestScope_Concurrent - Unique names under concurrency
// ---------------------------------------------------------------------------

func TestScope_Concurrent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	const n = 32

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		seen  = make(map[string]bool)
		errCh = make(chan error, n)
	)

	scopes := make([]*fileutil.Scope, n)
	for i := range n {
		scopes[i] = fileutil.NewScope(dir, "pdfgate")
		wg.Add(1)
		go func(s *fileutil.Scope) {
			defer wg.Done()
			p, err := s.Create("pdf")
			if err != nil {
				errCh <- err
				return
			}
			mu.Lock()
			if seen[p] {
				errCh <- errors.New("duplicate path " + p)
			}
			seen[p] = true
			mu.Unlock()
		}(scopes[i])
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
	if len(seen) != n {
		t.Errorf("got %d distinct paths, want %d", len(seen), n)
	}

	for _, s := range scopes {
		_ = s.Close()
	}
	assertEmptyDir(t, dir)
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
	if !fileutil.DirExists(dir) {
		t.Error("DirExists(dir) = false, want true")
	}
	if fileutil.DirExists(file) {
		t.Error("DirExists(file) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"pdfgate", false},
		{"./pdfgate.yaml", true},
		{"/etc/pdfgate.yaml", true},
		{"C:\\pdfgate.yaml", true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("leftover file: %s", e.Name())
	}
}
