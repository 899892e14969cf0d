package main

// Notes:
// - exitCodeFor: we test the CLI and config sentinels plus wrapped errors to
//   verify the errors.Is() chain.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/pdfgate/internal/config"
	"github.com/alnah/pdfgate/internal/logging"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"listen", ErrListen, ExitIO},
		{"static dir", ErrStaticDir, ExitIO},
		{"temp dir", ErrTempDir, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"wrapped listen", fmt.Errorf("%w: address in use", ErrListen), ExitIO},

		{"usage", ErrUsage, ExitUsage},
		{"invalid env", ErrInvalidEnv, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", fmt.Errorf("%w: server.addr", config.ErrInvalidConfig), ExitUsage},
		{"log level", logging.ErrInvalidLevel, ExitUsage},
		{"log format", logging.ErrInvalidFormat, ExitUsage},

		{"unknown", errors.New("boom"), ExitGeneral},
		{"serving", fmt.Errorf("serving: %w", errors.New("accept")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO}
	seen := map[int]bool{}
	for _, c := range codes {
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved range", c)
		}
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
}
