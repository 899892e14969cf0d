// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net"
	"strconv"
	"strings"

	"github.com/alnah/pdfgate/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// engineInstall maps PDF engines to an install suggestion.
var engineInstall = map[string]string{
	"weasyprint":  "pip install weasyprint",
	"wkhtmltopdf": "install wkhtmltopdf from your package manager",
	"pdflatex":    "install a TeX distribution such as texlive",
}

// ForConverterNotFound returns hints when the converter binary cannot be run.
func ForConverterNotFound(command string) string {
	hints := []string{"install pandoc or point --pandoc / PDFGATE_PANDOC at it"}
	if IsInContainer() {
		hints = append(hints, "the binary must be installed in the container image")
	}
	if command != "" && !strings.ContainsAny(command, "/\\") {
		hints = append(hints, "check that "+command+" is on PATH")
	}
	return formatHints(hints)
}

// ForEngineNotFound returns an install hint for a PDF engine.
func ForEngineNotFound(engine string) string {
	return format(engineInstall[engine])
}

// ForAPIKeyUnset returns hints for a missing API_KEY.
func ForAPIKeyUnset(rejectWhenUnset bool) string {
	if rejectWhenUnset {
		return format("set API_KEY; every conversion is refused until then")
	}
	return format(`set API_KEY; until then only "Authorization: Bearer " is accepted`)
}

// ForTimeout returns a hint about increasing timeout for slow conversions.
func ForTimeout() string {
	return format("for large documents, use --timeout flag or PDFGATE_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/pdfgate/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/pdfgate) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/pdfgate") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForStaticDir returns hints for a missing static directory.
func ForStaticDir() string {
	return format(`create the directory, or pass --static "" to disable static files`)
}

// ForTempDir returns hints for an unusable temporary directory.
func ForTempDir() string {
	return format("check the directory exists and is writable, or set --temp-dir")
}

// ForListen returns hints for listener errors.
func ForListen(addr string) string {
	hints := []string{"check that " + addr + " is free"}
	if _, portStr, err := net.SplitHostPort(addr); err == nil {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 && port < 1024 {
			hints = append(hints, "ports below 1024 need elevated privileges")
		}
	}
	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
