package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alnah/pdfgate"
)

func TestGuard_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		reject  bool
		headers []string
		wantOK  bool
	}{
		{"matching key", "secret", false, []string{"Bearer secret"}, true},
		{"no header", "secret", false, nil, false},
		{"two identical headers", "secret", false, []string{"Bearer secret", "Bearer secret"}, false},
		{"wrong key", "secret", false, []string{"Bearer other"}, false},
		{"lowercase scheme", "secret", false, []string{"bearer secret"}, false},
		{"trailing space", "secret", false, []string{"Bearer secret "}, false},
		{"missing scheme", "secret", false, []string{"secret"}, false},
		{"empty header", "secret", false, []string{""}, false},
		{"unset key matches bare prefix", "", false, []string{"Bearer "}, true},
		{"unset key rejects any token", "", false, []string{"Bearer x"}, false},
		{"unset key with reject", "", true, []string{"Bearer "}, false},
		{"reject flag ignored when key set", "secret", true, []string{"Bearer secret"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewGuard(tt.key, WithRejectWhenUnset(tt.reject))
			h := http.Header{}
			for _, v := range tt.headers {
				h.Add("Authorization", v)
			}

			err := g.Check(h)
			if tt.wantOK && err != nil {
				t.Fatalf("Check() = %v, want nil", err)
			}
			if !tt.wantOK && !errors.Is(err, pdfgate.ErrUnauthorized) {
				t.Fatalf("Check() = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestGuard_Middleware(t *testing.T) {
	t.Parallel()

	var called atomic.Int32
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewGuard("secret").Middleware(next)

	t.Run("refused", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/convert", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rec.Body.String())
		}
		if called.Load() != 0 {
			t.Error("next handler ran for a refused request")
		}
	})

	t.Run("admitted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/convert", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if called.Load() != 1 {
			t.Errorf("next handler ran %d times, want 1", called.Load())
		}
	})
}
