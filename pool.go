package pdfgate

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Concurrency sizing constants.
const (
	// MinConcurrent ensures at least one conversion can run.
	MinConcurrent = 1

	// MaxConcurrent caps automatic sizing; pandoc plus an engine is heavy.
	MaxConcurrent = 8

	// cpuDivisor leaves headroom for the engine processes pandoc spawns.
	cpuDivisor = 2
)

// slots bounds the number of conversions running at once.
type slots struct {
	size int
	sem  *semaphore.Weighted
}

func newSlots(n int) *slots {
	if n < 1 {
		n = 1
	}
	return &slots{size: n, sem: semaphore.NewWeighted(int64(n))}
}

// acquire blocks until a slot is free or ctx ends.
func (s *slots) acquire(ctx context.Context) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return nil
}

func (s *slots) release() {
	s.sem.Release(1)
}

// ResolveMaxConcurrent determines how many conversions may run at once.
// Priority: explicit value > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveMaxConcurrent(n int) int {
	// Explicit value takes priority
	if n > 0 {
		return n
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n = available / cpuDivisor

	if n < MinConcurrent {
		return MinConcurrent
	}
	if n > MaxConcurrent {
		return MaxConcurrent
	}
	return n
}
