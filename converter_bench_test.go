//go:build bench

package pdfgate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/alnah/pdfgate/internal/testutil"
)

// BenchmarkResolveMaxConcurrent benchmarks slot count calculation.
func BenchmarkResolveMaxConcurrent(b *testing.B) {
	for _, n := range []int{0, 1, 4, 16} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ResolveMaxConcurrent(n)
			}
		})
	}
}

// BenchmarkConvert_Overhead measures everything around the process: slot,
// temp files, argument construction and artifact delivery.
// Uses a recording runner to avoid process startup.
func BenchmarkConvert_Overhead(b *testing.B) {
	for _, size := range []int{1 << 10, 64 << 10, 1 << 20} {
		b.Run(fmt.Sprintf("%dKiB", size>>10), func(b *testing.B) {
			runner := &recordingRunner{result: &CommandResult{}}
			conv := NewConverter(WithRunner(runner), WithTempDir(b.TempDir()))
			req := Request{Markdown: strings.Repeat("x", size), CSS: strPtr("body{}")}
			deliver := func(a *Artifact) error {
				_, err := io.Copy(io.Discard, a.Body)
				return err
			}

			b.ReportAllocs()
			b.SetBytes(int64(size))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if err := conv.Convert(context.Background(), req, deliver); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkConvert_FakeProcess includes spawning the fake converter.
func BenchmarkConvert_FakeProcess(b *testing.B) {
	name, args := testutil.FakePandoc(testutil.Fake{})
	conv := NewConverter(WithCommand(name, args...), WithTempDir(b.TempDir()))
	req := Request{Markdown: "# Bench\n\nparagraph"}
	deliver := func(a *Artifact) error {
		_, err := io.Copy(io.Discard, a.Body)
		return err
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := conv.Convert(context.Background(), req, deliver); err != nil {
			b.Fatal(err)
		}
	}
}
