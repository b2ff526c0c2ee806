package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

// The gap between consecutive progress events is dominated by one
// generation pass including its retries, so each write pushes the
// connection deadline far enough out to survive the next pass.
const sseWriteWindow = 3 * time.Minute

// sseWriter streams progress events as server-sent events. Each event
// is one "data:" line with the JSON-encoded event; the stream always
// ends with "data: [DONE]".
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctrl    *http.ResponseController
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming is not supported by response writer")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &sseWriter{w: w, flusher: flusher, ctrl: http.NewResponseController(w)}, nil
}

func (s *sseWriter) emitProgress(event domain.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("sse_marshal_failed", "error", err)
		return
	}
	// Not every writer supports deadlines (test recorders do not).
	_ = s.ctrl.SetWriteDeadline(time.Now().Add(sseWriteWindow))
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		slog.Warn("sse_write_failed", "error", err)
		return
	}
	s.flusher.Flush()
}

func (s *sseWriter) close() {
	if _, err := io.WriteString(s.w, "data: [DONE]\n\n"); err != nil {
		slog.Warn("sse_write_failed", "error", err)
		return
	}
	s.flusher.Flush()
}
