// Package httpapi exposes the converter over HTTP.
//
// Routes:
//
//	POST /convert   bearer-guarded conversion, form fields markdown, css, engine
//	GET  /healthz   liveness probe
//	GET  /metrics   Prometheus exposition
//	GET  /*         files from the static directory
//
// Every response carries permissive CORS headers.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alnah/pdfgate"
	"github.com/alnah/pdfgate/internal/logging"
	"github.com/alnah/pdfgate/internal/metrics"
)

// Options configures a Server.
type Options struct {
	Converter    Converter        // required
	Guard        *Guard           // nil means NewGuard("")
	StaticDir    string           // empty disables static files
	MaxFormBytes int64            // <= 0 means pdfgate.DefaultMaxFormBytes
	Metrics      *metrics.Metrics // nil disables /metrics
	Logger       *slog.Logger

	// ResponseTimeout, when positive, resets the write deadline once a
	// conversion has finished, so time spent queued or converting does not
	// eat into writing the response.
	ResponseTimeout time.Duration
}

// Server is the HTTP handler of the service.
type Server struct {
	converter    Converter
	guard        *Guard
	maxFormBytes int64
	metrics      *metrics.Metrics
	logger       *slog.Logger
	respTimeout  time.Duration
	router       chi.Router
}

// New builds the router. It panics when opts.Converter is nil.
func New(opts Options) *Server {
	if opts.Converter == nil {
		panic("httpapi: nil Converter")
	}

	s := &Server{
		converter:    opts.Converter,
		guard:        opts.Guard,
		maxFormBytes: opts.MaxFormBytes,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		respTimeout:  opts.ResponseTimeout,
	}
	if s.guard == nil {
		s.guard = NewGuard("")
	}
	if s.maxFormBytes <= 0 {
		s.maxFormBytes = pdfgate.DefaultMaxFormBytes
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.With(s.guard.Middleware).Post("/convert", s.handleConvert)

	if opts.StaticDir != "" {
		files := http.FileServer(http.Dir(opts.StaticDir))
		r.Get("/*", files.ServeHTTP)
		r.Head("/*", files.ServeHTTP)
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
