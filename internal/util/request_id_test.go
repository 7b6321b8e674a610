package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestIDEchoesIncomingHeader(t *testing.T) {
	const incoming = "req-abc-123"
	var seen string
	h := WithRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", incoming)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if seen != incoming {
		t.Fatalf("context id = %q, want %q", seen, incoming)
	}
	if got := w.Header().Get("X-Request-Id"); got != incoming {
		t.Fatalf("response header = %q, want %q", got, incoming)
	}
}

func TestWithRequestIDMintsWhenAbsent(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if got := w.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header %q does not match context id %q", got, seen)
	}
}
