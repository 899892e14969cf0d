package httpapi

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/alnah/pdfgate"
	"github.com/alnah/pdfgate/internal/logging"
)

const bearerPrefix = "Bearer "

// Guard admits requests carrying exactly one Authorization header equal to
// "Bearer " followed by the configured key.
//
// With an empty key the expected header is the bare "Bearer " prefix. That
// fail-closed behavior is kept unless WithRejectWhenUnset is set, in which
// case every request is refused.
type Guard struct {
	expected        []byte
	keySet          bool
	rejectWhenUnset bool
	logger          *slog.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRejectWhenUnset refuses every request when no key is configured.
func WithRejectWhenUnset(reject bool) GuardOption {
	return func(g *Guard) {
		g.rejectWhenUnset = reject
	}
}

// WithGuardLogger sets the logger for refused requests.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard creates a Guard for apiKey. The key is captured once.
func NewGuard(apiKey string, opts ...GuardOption) *Guard {
	g := &Guard{
		expected: []byte(bearerPrefix + apiKey),
		keySet:   apiKey != "",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check returns pdfgate.ErrUnauthorized unless h holds exactly one matching
// Authorization value.
func (g *Guard) Check(h http.Header) error {
	if !g.keySet && g.rejectWhenUnset {
		return pdfgate.ErrUnauthorized
	}

	values := h.Values("Authorization")
	if len(values) != 1 {
		return pdfgate.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(values[0]), g.expected) != 1 {
		return pdfgate.ErrUnauthorized
	}
	return nil
}

// Middleware answers 401 with an empty body before next runs when Check fails.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Check(r.Header); err != nil {
			g.logger.Warn("unauthorized request",
				"path", r.URL.Path,
				"authorization_headers", len(r.Header.Values("Authorization")),
				"remote", r.RemoteAddr)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
