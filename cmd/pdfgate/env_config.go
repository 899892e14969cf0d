package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/pdfgate/internal/config"
)

// apiKeyVar holds the bearer credential. It has no config file or flag
// equivalent so the secret never lands in a file or a process listing.
const apiKeyVar = "API_KEY"

// envConfig holds configuration from environment variables.
// A nil field means the variable is unset; an empty string is a value.
type envConfig struct {
	ConfigPath string // PDFGATE_CONFIG: config file name or path

	Addr            *string        // PDFGATE_ADDR
	StaticDir       *string        // PDFGATE_STATIC_DIR
	MaxFormBytes    *int64         // PDFGATE_MAX_FORM_BYTES
	ShutdownTimeout *time.Duration // PDFGATE_SHUTDOWN_TIMEOUT

	Pandoc        *string        // PDFGATE_PANDOC
	TempDir       *string        // PDFGATE_TEMP_DIR
	Timeout       *time.Duration // PDFGATE_TIMEOUT
	MaxConcurrent *int           // PDFGATE_MAX_CONCURRENT

	RejectUnsetKey *bool // PDFGATE_REJECT_UNSET_KEY

	LogLevel  *string // PDFGATE_LOG_LEVEL
	LogFormat *string // PDFGATE_LOG_FORMAT
}

// knownEnvVars lists valid PDFGATE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFGATE_CONFIG":           true,
	"PDFGATE_ADDR":             true,
	"PDFGATE_STATIC_DIR":       true,
	"PDFGATE_MAX_FORM_BYTES":   true,
	"PDFGATE_SHUTDOWN_TIMEOUT": true,
	"PDFGATE_PANDOC":           true,
	"PDFGATE_TEMP_DIR":         true,
	"PDFGATE_TIMEOUT":          true,
	"PDFGATE_MAX_CONCURRENT":   true,
	"PDFGATE_REJECT_UNSET_KEY": true,
	"PDFGATE_LOG_LEVEL":        true,
	"PDFGATE_LOG_FORMAT":       true,
	"PDFGATE_CONTAINER":        true, // doctor: force container detection
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers, durations or booleans are errors.
func loadEnvConfig(lookup func(string) (string, bool)) (*envConfig, error) {
	cfg := &envConfig{}
	cfg.ConfigPath, _ = lookup("PDFGATE_CONFIG")

	str := func(name string) *string {
		if v, ok := lookup(name); ok {
			return &v
		}
		return nil
	}
	cfg.Addr = str("PDFGATE_ADDR")
	cfg.StaticDir = str("PDFGATE_STATIC_DIR")
	cfg.Pandoc = str("PDFGATE_PANDOC")
	cfg.TempDir = str("PDFGATE_TEMP_DIR")
	cfg.LogLevel = str("PDFGATE_LOG_LEVEL")
	cfg.LogFormat = str("PDFGATE_LOG_FORMAT")

	var err error
	if cfg.MaxFormBytes, err = parseEnv(lookup, "PDFGATE_MAX_FORM_BYTES", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseEnv(lookup, "PDFGATE_SHUTDOWN_TIMEOUT", time.ParseDuration); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = parseEnv(lookup, "PDFGATE_TIMEOUT", time.ParseDuration); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrent, err = parseEnv(lookup, "PDFGATE_MAX_CONCURRENT", strconv.Atoi); err != nil {
		return nil, err
	}
	if cfg.RejectUnsetKey, err = parseEnv(lookup, "PDFGATE_REJECT_UNSET_KEY", strconv.ParseBool); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseEnv parses name with parse when it is set to a non-blank value.
func parseEnv[T any](lookup func(string) (string, bool), name string, parse func(string) (T, error)) (*T, error) {
	raw, ok := lookup(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, name, raw)
	}
	return &v, nil
}

// warnUnknownEnvVars prints warnings for unrecognized PDFGATE_* variables.
// Helps catch typos like PDFGATE_TIMOUT.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "PDFGATE_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides cfg with every variable that is set.
// Resulting priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards via applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf(&cfg.Server.Addr, env.Addr)
	setIf(&cfg.Server.StaticDir, env.StaticDir)
	setIf(&cfg.Server.MaxFormBytes, env.MaxFormBytes)
	setIf(&cfg.Server.ShutdownTimeout, env.ShutdownTimeout)
	setIf(&cfg.Converter.Command, env.Pandoc)
	setIf(&cfg.Converter.TempDir, env.TempDir)
	setIf(&cfg.Converter.Timeout, env.Timeout)
	setIf(&cfg.Converter.MaxConcurrent, env.MaxConcurrent)
	setIf(&cfg.Auth.RejectWhenUnset, env.RejectUnsetKey)
	setIf(&cfg.Log.Level, env.LogLevel)
	setIf(&cfg.Log.Format, env.LogFormat)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
