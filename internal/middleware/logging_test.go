package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Проверяем, что мидлварь проксирует ответ и пишет статус, размер и request id
func TestWithLogging_RecordsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(zap.NewNop().Sugar()) })

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot) // 418
		_, _ = w.Write([]byte("hello"))
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/points", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	WithLogging(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot || rr.Body.String() != "hello" {
		t.Fatalf("passthrough failed: %d %q", rr.Code, rr.Body.String())
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("status field: %#v", fields["status"])
	}
	if fields["size"] != int64(5) {
		t.Fatalf("size field: %#v", fields["size"])
	}
	if fields["request_id"] != "rid-1" || fields["uri"] != "/api/points" {
		t.Fatalf("unexpected fields: %#v", fields)
	}
}
