package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/pdfgate"
)

// StatusFor maps a pipeline error to its HTTP status.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var rejected *pdfgate.RejectedError
	switch {
	case errors.Is(err, pdfgate.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, pdfgate.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &rejected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Converter diagnostics are returned verbatim;
// infrastructure details never leave the process.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)
	log := logger.With("request_id", middleware.GetReqID(r.Context()))

	var rejected *pdfgate.RejectedError
	switch {
	case errors.As(err, &rejected):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(rejected.Stderr)))
		w.WriteHeader(status)
		if _, werr := w.Write(rejected.Stderr); werr != nil {
			log.Debug("writing diagnostics", "error", werr)
		}

	case status == http.StatusBadRequest:
		log.Info("bad conversion request", "error", err)
		http.Error(w, err.Error(), status)

	case status == http.StatusUnauthorized:
		w.WriteHeader(status)

	default:
		log.Error("conversion failed", "error", err)
		w.WriteHeader(status)
	}
}
