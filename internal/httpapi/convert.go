package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/pdfgate"
)

// Converter runs a conversion and hands the result to deliver.
// *pdfgate.Converter implements it.
type Converter interface {
	Convert(ctx context.Context, req pdfgate.Request, deliver func(*pdfgate.Artifact) error) error
}

var _ Converter = (*pdfgate.Converter)(nil)

// handleConvert is POST /convert. The guard has already run.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := pdfgate.DecodeRequest(w, r, s.maxFormBytes)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	done := s.metrics.ConversionStarted(string(req.ResolvedEngine()))

	streaming := false
	err = s.converter.Convert(r.Context(), req, func(a *pdfgate.Artifact) error {
		s.extendWriteDeadline(w, r)
		h := w.Header()
		h.Set("Content-Type", "application/pdf")
		h.Set("Content-Length", strconv.FormatInt(a.Size, 10))
		h.Set("Content-Disposition", `inline; filename="document.pdf"`)
		w.WriteHeader(http.StatusOK)
		streaming = true

		if _, err := io.Copy(w, a.Body); err != nil {
			return fmt.Errorf("streaming %s: %w", a.ID, err)
		}
		return nil
	})

	done(pdfgate.Classify(err).String())

	if streaming {
		// Headers are out; the client sees a short body on failure.
		if err != nil {
			s.logger.Warn("response interrupted", "error", err)
		}
		return
	}
	s.extendWriteDeadline(w, r)
	writeError(w, r, s.logger, err)
}

// extendWriteDeadline gives the response its own write budget.
func (s *Server) extendWriteDeadline(w http.ResponseWriter, r *http.Request) {
	if s.respTimeout <= 0 {
		return
	}
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Now().Add(s.respTimeout)); err != nil {
		s.logger.Debug("write deadline not extended",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
}
