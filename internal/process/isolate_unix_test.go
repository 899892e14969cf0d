//go:build !windows

package process

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestIsolate - Cancellation kills the process group
// ---------------------------------------------------------------------------

func TestIsolate_SetsProcessGroup(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	Isolate(cmd)

	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setpgid {
		t.Error("Isolate() did not set Setpgid")
	}
	if cmd.Cancel == nil {
		t.Error("Isolate() did not set Cancel")
	}
}

func TestIsolate_CancelStopsChildren(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The shell forks a grandchild sleep that would outlive a plain kill.
	cmd := exec.CommandContext(ctx, "sh", "-c", "sleep 30 & wait")
	Isolate(cmd)
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Wait() = nil after cancel, want error")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("process group still running 10s after cancel")
	}
}
