package main

import (
	"errors"
	"os"

	"github.com/alnah/pdfgate/internal/config"
	"github.com/alnah/pdfgate/internal/logging"
)

// Exit codes for the pdfgate CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Clean shutdown or successful command
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, environment or config
	ExitIO      = 3 // Listener, static or temp directory unusable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, ErrListen) ||
		errors.Is(err, ErrStaticDir) ||
		errors.Is(err, ErrTempDir) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
