package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parkwise/rainier-guide/internal/observability/metrics"
)

const requestIDHeader = "X-Request-Id"

type requestIDContextKey struct{}

type annotationsContextKey struct{}

// requestAnnotations collects attributes a handler learns mid-request,
// such as the detected topic or whether an answer was grounded, so the
// access log line reports pipeline facts next to the transport facts it
// measures itself.
type requestAnnotations struct {
	mu    sync.Mutex
	attrs []any
}

func (a *requestAnnotations) add(args ...any) {
	a.mu.Lock()
	a.attrs = append(a.attrs, args...)
	a.mu.Unlock()
}

func (a *requestAnnotations) snapshot() []any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]any(nil), a.attrs...)
}

// annotateRequest is a no-op outside the access-log middleware, so
// handlers can call it unconditionally.
func annotateRequest(ctx context.Context, args ...any) {
	annotations, _ := ctx.Value(annotationsContextKey{}).(*requestAnnotations)
	if annotations == nil {
		return
	}
	annotations.add(args...)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r)
	})
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := metrics.NewResponseRecorder(w)
		annotations := &requestAnnotations{}
		r = r.WithContext(context.WithValue(r.Context(), annotationsContextKey{}, annotations))

		next.ServeHTTP(recorder, r)

		remoteAddr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			remoteAddr = host
		}

		logAttrs := []any{
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.Status(),
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes", recorder.BytesWritten(),
			"remote_addr", remoteAddr,
		}
		logAttrs = append(logAttrs, annotations.snapshot()...)

		switch {
		case recorder.Status() >= 500:
			slog.Error("http_request", logAttrs...)
		case recorder.Status() >= 400:
			slog.Warn("http_request", logAttrs...)
		default:
			slog.Info("http_request", logAttrs...)
		}
	})
}
