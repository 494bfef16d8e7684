package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddlewareAssignsID(t *testing.T) {
	var fromCtx string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if fromCtx == "" {
		t.Error("идентификатор запроса не попал в контекст")
	}
	if got := w.Header().Get("X-Request-Id"); got != fromCtx {
		t.Errorf("X-Request-Id = %q, want %q", got, fromCtx)
	}
}

func TestRequestIDMiddlewarePreservesClientID(t *testing.T) {
	var fromCtx string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-id-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if fromCtx != "client-id-42" {
		t.Errorf("request id = %q, want %q", fromCtx, "client-id-42")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want пустую строку", got)
	}
}
