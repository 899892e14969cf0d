package pdfgate

import (
	"io"
	"log/slog"
	"time"

	"github.com/alnah/pdfgate/internal/logging"
)

// DefaultCommand is the converter binary looked up on PATH.
const DefaultCommand = "pandoc"

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 2 * time.Minute

// tempPrefix starts every temporary file name.
const tempPrefix = "pdfgate"

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	command       string
	extraArgs     []string
	tempDir       string
	timeout       time.Duration // 0 disables
	maxConcurrent int
}

// WithCommand sets the converter binary and arguments placed before the
// generated ones.
func WithCommand(name string, args ...string) Option {
	return func(c *Converter) {
		c.cfg.command = name
		c.cfg.extraArgs = append([]string(nil), args...)
	}
}

// WithTempDir sets the directory for temporary files. Empty uses os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.tempDir = dir
	}
}

// WithTimeout bounds a single conversion, including the wait for a free
// slot. Zero disables the limit.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("pdfgate: WithTimeout duration must not be negative")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithMaxConcurrent bounds simultaneous conversions. Values <= 0 select
// ResolveMaxConcurrent(0).
func WithMaxConcurrent(n int) Option {
	return func(c *Converter) {
		c.cfg.maxConcurrent = n
	}
}

// WithRunner replaces the process runner.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// WithLogger sets the logger for conversion events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l == nil {
			l = logging.NewNop()
		}
		c.logger = l
	}
}

// Artifact is a converted document, open for reading. It is only valid
// inside the deliver callback passed to Converter.Convert.
type Artifact struct {
	ID     string // conversion id, also part of the temp file names
	Engine Engine
	Path   string
	Size   int64
	Body   io.ReadSeeker
}
