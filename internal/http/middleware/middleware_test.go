package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ringboard-service/internal/metrics"
)

func TestLoggingGeneratesRequestID(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	h := Logging(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board/snapshot", nil))

	if captured == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != captured {
		t.Fatalf("response header id %q != context id %q", got, captured)
	}
}

func TestLoggingKeepsValidIncomingRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Logging(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected incoming request id kept, got %q", got)
	}
}

func TestLoggingReplacesMalformedRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Logging(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces\n")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got == "" || got == "bad id with spaces\n" {
		t.Fatalf("expected sanitized request id, got %q", got)
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	recorder := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Logging(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), recorder)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board/snapshot", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
