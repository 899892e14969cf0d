package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/pdfgate/internal/config"
)

// cliFlags holds flags shared by serve, doctor and config.
type cliFlags struct {
	config         string
	addr           string
	staticDir      string
	maxFormBytes   int64
	pandoc         string
	tempDir        string
	timeout        time.Duration
	maxConcurrent  int
	rejectUnsetKey bool
	logLevel       string
	logFormat      string

	json bool // doctor only
}

// parseFlags parses args for cmd. Values are only applied to the
// configuration when the flag was set explicitly (see applyFlags).
func parseFlags(cmd string, args []string) (*cliFlags, *flag.FlagSet, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.addr, "addr", "", "listen address")
	fs.StringVar(&f.staticDir, "static", "", "static file directory (\"\" disables)")
	fs.Int64Var(&f.maxFormBytes, "max-form-bytes", 0, "request body limit for /convert")
	fs.StringVar(&f.pandoc, "pandoc", "", "pandoc binary")
	fs.StringVar(&f.tempDir, "temp-dir", "", "directory for temporary files")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-conversion timeout (0 disables)")
	fs.IntVar(&f.maxConcurrent, "max-concurrent", 0, "simultaneous conversions (0 = auto)")
	fs.BoolVar(&f.rejectUnsetKey, "reject-unset-key", false, "refuse every request when API_KEY is unset")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "text or json")
	if cmd == "doctor" {
		fs.BoolVar(&f.json, "json", false, "print results as JSON")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrUsage, cmd, err)
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("%w: %s: unexpected argument %q", ErrUsage, cmd, fs.Arg(0))
	}
	return f, fs, nil
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(fs *flag.FlagSet, f *cliFlags, cfg *config.Config) {
	if fs.Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if fs.Changed("static") {
		cfg.Server.StaticDir = f.staticDir
	}
	if fs.Changed("max-form-bytes") {
		cfg.Server.MaxFormBytes = f.maxFormBytes
	}
	if fs.Changed("pandoc") {
		cfg.Converter.Command = f.pandoc
	}
	if fs.Changed("temp-dir") {
		cfg.Converter.TempDir = f.tempDir
	}
	if fs.Changed("timeout") {
		cfg.Converter.Timeout = f.timeout
	}
	if fs.Changed("max-concurrent") {
		cfg.Converter.MaxConcurrent = f.maxConcurrent
	}
	if fs.Changed("reject-unset-key") {
		cfg.Auth.RejectWhenUnset = f.rejectUnsetKey
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
}
