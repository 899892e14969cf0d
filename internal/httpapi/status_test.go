package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/alnah/pdfgate"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"unauthorized", pdfgate.ErrUnauthorized, http.StatusUnauthorized},
		{"missing markdown", pdfgate.ErrMissingMarkdown, http.StatusBadRequest},
		{"unknown engine", fmt.Errorf("%w: %q", pdfgate.ErrUnknownEngine, "x"), http.StatusBadRequest},
		{"form too large", pdfgate.ErrFormTooLarge, http.StatusBadRequest},
		{"rejected", &pdfgate.RejectedError{ExitCode: 2, Stderr: []byte("bad")}, http.StatusBadRequest},
		{"wrapped rejected", fmt.Errorf("run: %w", &pdfgate.RejectedError{ExitCode: 1}), http.StatusBadRequest},
		{"temp file", pdfgate.ErrTempFile, http.StatusInternalServerError},
		{"start", pdfgate.ErrConverterStart, http.StatusInternalServerError},
		{"missing artifact", pdfgate.ErrMissingArtifact, http.StatusInternalServerError},
		{"busy", pdfgate.ErrBusy, http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
