package pdfgate

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestResolveMaxConcurrent(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name string
		n    int
		want int
	}{
		{
			name: "explicit takes priority",
			n:    4,
			want: 4,
		},
		{
			name: "explicit=1 for sequential",
			n:    1,
			want: 1,
		},
		{
			name: "explicit can exceed max",
			n:    16,
			want: 16,
		},
		{
			name: "zero uses auto calculation",
			n:    0,
			want: min(max(gomaxprocs/cpuDivisor, MinConcurrent), MaxConcurrent),
		},
		{
			name: "negative uses auto calculation",
			n:    -3,
			want: min(max(gomaxprocs/cpuDivisor, MinConcurrent), MaxConcurrent),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveMaxConcurrent(tt.n); got != tt.want {
				t.Errorf("ResolveMaxConcurrent(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSlots - Conversion slot limiting
// ---------------------------------------------------------------------------

func TestSlots_BlocksWhenFull(t *testing.T) {
	t.Parallel()

	s := newSlots(1)
	if err := s.acquire(context.Background()); err != nil {
		t.Fatalf("first acquire error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.acquire(ctx)
	if !errors.Is(err, ErrBusy) {
		t.Errorf("acquire on full slots error = %v, want ErrBusy", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("acquire error %v should wrap context.DeadlineExceeded", err)
	}

	s.release()
	if err := s.acquire(context.Background()); err != nil {
		t.Errorf("acquire after release error = %v", err)
	}
}

func TestNewSlots_MinimumOne(t *testing.T) {
	t.Parallel()

	if got := newSlots(0).size; got != 1 {
		t.Errorf("newSlots(0).size = %d, want 1", got)
	}
}
