package pdfgate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/alnah/pdfgate/internal/process"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the converter itself exited or was killed.
const waitDelay = 5 * time.Second

// Command describes one converter invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin io.Reader
}

// CommandResult holds what a finished process reported.
// A non-zero ExitCode is a normal result, not an error.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}

// ExecRunner implements CommandRunner using os/exec.
//
// Stdin is copied and both output streams are drained by separate goroutines
// owned by exec.Cmd, so a converter that fills its stdout or stderr before
// reading its input cannot deadlock the caller. A converter that exits
// without consuming all of its input is not an error: exec ignores the
// resulting EPIPE and the exit status decides the outcome.
type ExecRunner struct{}

// Run starts the command, waits for it and returns its exit code and output.
// Errors are returned only for infrastructure failures: ErrConverterStart when
// the process cannot be spawned, the context error when ctx ended first, and
// ErrConverterIO for any other failure while feeding or draining it. A
// process killed by a signal while ctx is live yields a result with
// ExitCode -1.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) // #nosec G204 -- converter path comes from server config
	process.Isolate(cmd)
	cmd.WaitDelay = waitDelay
	cmd.Stdin = c.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConverterStart, c.Name, err)
	}

	err := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrConverterIO, ctxErr)
	}

	if err != nil {
		// A process that died from a signal nobody here sent is reported
		// like any other failed status; ExitCode is -1 then.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandResult{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.Bytes(),
				Stderr:   stderr.Bytes(),
			}, nil
		}
		// Stdin copy failure, or pipes left open past waitDelay.
		return nil, fmt.Errorf("%w: %v", ErrConverterIO, err)
	}

	return &CommandResult{
		ExitCode: 0,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}
