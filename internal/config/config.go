// Package config loads the service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/pdfgate/internal/fileutil"
	"github.com/alnah/pdfgate/internal/logging"
	"github.com/alnah/pdfgate/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Limits enforced by Validate.
const (
	MaxFormBytesLimit  = 1 << 30 // 1 GiB
	MaxConcurrentLimit = 256
	MaxCommandLength   = 4096
)

// Defaults.
const (
	DefaultAddr            = ":8000"
	DefaultStaticDir       = "static"
	DefaultMaxFormBytes    = 10 << 20
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCommand         = "pandoc"
	DefaultTimeout         = 2 * time.Minute
)

// appDir names the per-user config directory.
const appDir = "pdfgate"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Converter ConverterConfig `yaml:"converter"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"staticDir"`    // empty disables static files
	MaxFormBytes    int64         `yaml:"maxFormBytes"` // request body limit for /convert
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// ConverterConfig defines how pandoc is run.
type ConverterConfig struct {
	Command       string        `yaml:"command"`
	Args          []string      `yaml:"args"`          // placed before the generated arguments
	TempDir       string        `yaml:"tempDir"`       // empty = OS temp dir
	Timeout       time.Duration `yaml:"timeout"`       // 0 disables
	MaxConcurrent int           `yaml:"maxConcurrent"` // 0 = auto
}

// AuthConfig defines the bearer check. The key itself only comes from the
// API_KEY environment variable.
type AuthConfig struct {
	RejectWhenUnset bool `yaml:"rejectWhenUnset"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			StaticDir:       DefaultStaticDir,
			MaxFormBytes:    DefaultMaxFormBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Converter: ConverterConfig{
			Command: DefaultCommand,
			Timeout: DefaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// Validate checks ranges and enumerations.
// Called automatically by LoadConfig, and again by the CLI after env and
// flag overrides are applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr: must not be empty", ErrInvalidConfig)
	}
	if c.Server.MaxFormBytes <= 0 || c.Server.MaxFormBytes > MaxFormBytesLimit {
		return fmt.Errorf("%w: server.maxFormBytes: must be between 1 and %d, got %d",
			ErrInvalidConfig, MaxFormBytesLimit, c.Server.MaxFormBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdownTimeout: must not be negative, got %v",
			ErrInvalidConfig, c.Server.ShutdownTimeout)
	}

	if strings.TrimSpace(c.Converter.Command) == "" {
		return fmt.Errorf("%w: converter.command: must not be empty", ErrInvalidConfig)
	}
	if len(c.Converter.Command) > MaxCommandLength {
		return fmt.Errorf("%w: converter.command: %d chars, max %d",
			ErrInvalidConfig, len(c.Converter.Command), MaxCommandLength)
	}
	for i, arg := range c.Converter.Args {
		if isReservedArg(arg) {
			return fmt.Errorf("%w: converter.args[%d]: %q is set per request",
				ErrInvalidConfig, i, arg)
		}
	}
	if c.Converter.Timeout < 0 {
		return fmt.Errorf("%w: converter.timeout: must not be negative, got %v",
			ErrInvalidConfig, c.Converter.Timeout)
	}
	if c.Converter.MaxConcurrent < 0 || c.Converter.MaxConcurrent > MaxConcurrentLimit {
		return fmt.Errorf("%w: converter.maxConcurrent: must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxConcurrentLimit, c.Converter.MaxConcurrent)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format: invalid value %q (must be text or json)",
			ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// isReservedArg reports whether arg would clash with an argument the
// converter builds for each request.
func isReservedArg(arg string) bool {
	for _, p := range []string{"--output", "-o", "--pdf-engine", "--css", "-c"} {
		if arg == p || strings.HasPrefix(arg, p+"=") {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig. If nameOrPath contains a path separator, it's treated as a
// file path. Otherwise, it's treated as a config name and searched in
// standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is operator-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing entry of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
