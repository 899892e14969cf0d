package pdfgate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/pdfgate/internal/fileutil"
	"github.com/alnah/pdfgate/internal/logging"
)

// Compile-time interface implementation checks.
var _ CommandRunner = (*ExecRunner)(nil)

// Converter turns conversion requests into PDFs by running pandoc.
// It is safe for concurrent use; each call to Convert owns its own
// temporary files and process.
type Converter struct {
	cfg    converterConfig
	runner CommandRunner
	slots  *slots
	logger *slog.Logger
}

// NewConverter creates a Converter running DefaultCommand.
// Use options to customize behavior (e.g., WithCommand, WithTimeout, WithTempDir).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			command: DefaultCommand,
			timeout: defaultTimeout,
		},
		runner: &ExecRunner{},
		logger: logging.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.slots = newSlots(ResolveMaxConcurrent(c.cfg.maxConcurrent))
	return c
}

// MaxConcurrent returns the number of conversions allowed to run at once.
func (c *Converter) MaxConcurrent() int {
	return c.slots.size
}

// Convert runs pandoc for req and, on success, calls deliver with the
// produced PDF while its temporary file still exists. Every temporary file
// is removed before Convert returns, whatever the outcome.
//
// Returned errors: *RejectedError when pandoc exits unsuccessfully, an error
// wrapping ErrInfrastructure for any other failure, or the error returned by
// deliver. Use Classify to map them.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, req Request, deliver func(*Artifact) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler {
				panic(r)
			}
			err = fmt.Errorf("%w: internal error: %v", ErrInfrastructure, r)
		}
	}()

	// The timeout covers waiting for a slot as well as the run, so a queued
	// request cannot outlast it.
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	if err := c.slots.acquire(ctx); err != nil {
		return err
	}
	defer c.slots.release()

	id := uuid.NewString()
	engine := req.ResolvedEngine()
	start := time.Now()
	log := c.logger.With("conversion_id", id, "engine", string(engine))

	scope := fileutil.NewScope(c.cfg.tempDir, tempPrefix+"-"+id)
	defer func() {
		if cerr := scope.Close(); cerr != nil {
			log.Warn("removing temporary files", "error", cerr)
		}
	}()

	outPath, err := scope.Create("pdf")
	if err != nil {
		return fmt.Errorf("%w: output: %v", ErrTempFile, err)
	}

	args := append([]string(nil), c.cfg.extraArgs...)
	args = append(args,
		"--output="+outPath,
		"--pdf-engine="+string(engine),
	)

	if req.CSS != nil {
		cssPath, err := scope.Write(*req.CSS, "css")
		if err != nil {
			return fmt.Errorf("%w: stylesheet: %v", ErrTempFile, err)
		}
		args = append(args, "--css="+cssPath)
	}

	res, err := c.runner.Run(ctx, Command{
		Name:  c.cfg.command,
		Args:  args,
		Stdin: strings.NewReader(req.Markdown),
	})
	if err != nil {
		log.Error("converter failed", "error", err, "duration", time.Since(start))
		return err
	}

	if res.ExitCode != 0 {
		log.Info("converter rejected input",
			"exit_code", res.ExitCode,
			"stderr_bytes", len(res.Stderr),
			"duration", time.Since(start))
		return &RejectedError{ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	if len(res.Stderr) > 0 {
		log.Debug("converter warnings", "stderr", string(res.Stderr))
	}

	f, size, err := openArtifact(outPath)
	if err != nil {
		log.Error("reading converter output", "error", err)
		return err
	}
	defer f.Close()

	log.Info("conversion finished", "bytes", size, "duration", time.Since(start))

	return deliver(&Artifact{
		ID:     id,
		Engine: engine,
		Path:   outPath,
		Size:   size,
		Body:   f,
	})
}

// openArtifact opens the file pandoc was told to write. A missing or empty
// file means pandoc reported success without producing a document.
func openArtifact(path string) (*os.File, int64, error) {
	f, err := os.Open(path) // #nosec G304 -- path allocated by the conversion scope
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMissingArtifact, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %v", ErrMissingArtifact, err)
	}
	if info.Size() == 0 {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %s is empty", ErrMissingArtifact, path)
	}

	return f, info.Size(), nil
}
