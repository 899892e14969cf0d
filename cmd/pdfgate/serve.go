package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/pdfgate"
	"github.com/alnah/pdfgate/internal/config"
	"github.com/alnah/pdfgate/internal/fileutil"
	"github.com/alnah/pdfgate/internal/hints"
	"github.com/alnah/pdfgate/internal/httpapi"
	"github.com/alnah/pdfgate/internal/logging"
	"github.com/alnah/pdfgate/internal/metrics"
)

// HTTP server timeouts. The write timeout grows with the converter timeout,
// and each /convert response gets writeGrace more once converting is done.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = time.Minute
	idleTimeout       = 2 * time.Minute
	writeGrace        = 30 * time.Second
)

// resolveConfig layers defaults, the config file, PDFGATE_* variables and
// explicitly set flags, then validates the result.
func resolveConfig(f *cliFlags, fs *flag.FlagSet, env *Environment) (*config.Config, error) {
	envCfg, err := loadEnvConfig(env.LookupEnv)
	if err != nil {
		return nil, err
	}

	path := f.config
	if path == "" {
		path = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(path) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(path)))
			}
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	applyFlags(fs, f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// hintText strips the hint prefix for use as a log attribute.
func hintText(h string) string {
	return strings.TrimPrefix(h, "\n  hint: ")
}

// newLogger builds the application logger from cfg.
func newLogger(cfg *config.Config, env *Environment) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(env.Stderr, level, cfg.Log.Format)
}

// runServe starts the HTTP service and blocks until ctx is cancelled,
// then drains in-flight requests for at most server.shutdownTimeout.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, fs, err := parseFlags("serve", args)
	if errors.Is(err, flag.ErrHelp) {
		printServeUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := resolveConfig(f, fs, env)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, env)
	if err != nil {
		return err
	}

	if dir := cfg.Server.StaticDir; dir != "" && !fileutil.DirExists(dir) {
		return fmt.Errorf("%w: %s%s", ErrStaticDir, dir, hints.ForStaticDir())
	}
	if dir := cfg.Converter.TempDir; dir != "" && !fileutil.DirExists(dir) {
		return fmt.Errorf("%w: %s%s", ErrTempDir, dir, hints.ForTempDir())
	}

	apiKey := env.getenv(apiKeyVar)
	if apiKey == "" {
		logger.Warn("API_KEY is not set",
			"hint", hintText(hints.ForAPIKeyUnset(cfg.Auth.RejectWhenUnset)))
	}
	if _, err := env.LookPath(cfg.Converter.Command); err != nil {
		logger.Warn("converter not found, conversions will fail",
			"command", cfg.Converter.Command,
			"error", err,
			"hint", hintText(hints.ForConverterNotFound(cfg.Converter.Command)))
	}

	conv := pdfgate.NewConverter(
		pdfgate.WithCommand(cfg.Converter.Command, cfg.Converter.Args...),
		pdfgate.WithTempDir(cfg.Converter.TempDir),
		pdfgate.WithTimeout(cfg.Converter.Timeout),
		pdfgate.WithMaxConcurrent(cfg.Converter.MaxConcurrent),
		pdfgate.WithLogger(logger),
	)

	handler := httpapi.New(httpapi.Options{
		Converter: conv,
		Guard: httpapi.NewGuard(apiKey,
			httpapi.WithRejectWhenUnset(cfg.Auth.RejectWhenUnset),
			httpapi.WithGuardLogger(logger)),
		StaticDir:       cfg.Server.StaticDir,
		MaxFormBytes:    cfg.Server.MaxFormBytes,
		Metrics:         metrics.New(),
		Logger:          logger,
		ResponseTimeout: writeGrace,
	})

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	if cfg.Converter.Timeout > 0 {
		srv.WriteTimeout = cfg.Converter.Timeout + writeGrace
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrListen, err, hints.ForListen(cfg.Server.Addr))
	}
	if env.OnListen != nil {
		env.OnListen(ln.Addr())
	}

	logger.Info("listening",
		"addr", ln.Addr().String(),
		"static_dir", cfg.Server.StaticDir,
		"converter", cfg.Converter.Command,
		"max_concurrent", conv.MaxConcurrent(),
		"timeout", cfg.Converter.Timeout)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)

	shutdownCtx := context.Background()
	if cfg.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, cfg.Server.ShutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown incomplete", "error", err)
		if cerr := srv.Close(); cerr != nil {
			return fmt.Errorf("closing server: %w", cerr)
		}
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	logger.Info("stopped")
	return nil
}
