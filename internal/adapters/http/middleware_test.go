package httpadapter

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type logCapture struct {
	mu      sync.Mutex
	records []map[string]any
}

func (c *logCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *logCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := map[string]any{"msg": r.Message}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	c.mu.Lock()
	c.records = append(c.records, attrs)
	c.mu.Unlock()
	return nil
}

func (c *logCapture) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *logCapture) WithGroup(string) slog.Handler      { return c }

func (c *logCapture) find(msg string) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range c.records {
		if record["msg"] == msg {
			return record
		}
	}
	return nil
}

func captureLogs(t *testing.T) *logCapture {
	t.Helper()
	capture := &logCapture{}
	prev := slog.Default()
	slog.SetDefault(slog.New(capture))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return capture
}

func TestAccessLogCarriesPipelineAttributes(t *testing.T) {
	capture := captureLogs(t)
	handler := newTestRouter(&guideFake{envelope: successEnvelope()}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/guide/ask", bytes.NewBufferString(`{"question":"trails?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	record := capture.find("http_request")
	if record == nil {
		t.Fatalf("no access log record captured")
	}
	if record["topic"] != "trail" {
		t.Fatalf("expected topic attribute, got %v", record["topic"])
	}
	if record["grounded"] != true {
		t.Fatalf("expected grounded=true, got %v", record["grounded"])
	}
	if record["enhanced"] != false {
		t.Fatalf("expected enhanced=false, got %v", record["enhanced"])
	}
	if record["status"] != int64(http.StatusOK) {
		t.Fatalf("expected status 200, got %v", record["status"])
	}
	if bytesWritten, ok := record["bytes"].(int64); !ok || bytesWritten <= 0 {
		t.Fatalf("expected positive byte count, got %v", record["bytes"])
	}
	if record["request_id"] == "" {
		t.Fatalf("expected request id in access log")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	handler := newTestRouter(&guideFake{envelope: successEnvelope()}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected caller request id to round-trip, got %q", got)
	}
}

func TestAnnotateRequestWithoutMiddlewareIsNoOp(t *testing.T) {
	annotateRequest(context.Background(), "topic", "trail")
}
