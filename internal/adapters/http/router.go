package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/parkwise/rainier-guide/internal/core/domain"
	"github.com/parkwise/rainier-guide/internal/core/ports"
	"github.com/parkwise/rainier-guide/internal/observability/metrics"
)

const serviceName = "guide-api"

type Router struct {
	guide    ports.GuideService
	ingestor *ingestorHandles
	metrics  *metrics.HTTPServerMetrics
}

// ingestorHandles groups the document-side collaborators so question
// answering can run without them (nil in retrieval-only deployments).
type ingestorHandles struct {
	upload  ports.DocumentIngestor
	reader  ports.DocumentReader
	reindex ports.MessageQueue
}

func NewRouter(
	guide ports.GuideService,
	upload ports.DocumentIngestor,
	reader ports.DocumentReader,
	reindex ports.MessageQueue,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		guide: guide,
		ingestor: &ingestorHandles{
			upload:  upload,
			reader:  reader,
			reindex: reindex,
		},
		metrics: serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/guide/ask", rt.ask)
	mux.HandleFunc("/v1/guide/ask/stream", rt.askStream)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/admin/reindex", rt.reindex)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type askRequest struct {
	Question string `json:"question"`
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	question, ok := rt.decodeQuestion(w, r)
	if !ok {
		return
	}

	start := time.Now()
	envelope := rt.guide.Ask(r.Context(), question)
	rt.recordAsk("ask", envelope.Topic.String(), envelope.Success, len(envelope.Sources), time.Since(start))
	annotateEnvelope(r.Context(), envelope)

	// The envelope is complete even on failure; the status code mirrors
	// Success so clients can branch without parsing the body.
	status := http.StatusOK
	if !envelope.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, envelope)
}

func (rt *Router) askStream(w http.ResponseWriter, r *http.Request) {
	question, ok := rt.decodeQuestion(w, r)
	if !ok {
		return
	}

	stream, err := newSSEWriter(w)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	start := time.Now()
	envelope := rt.guide.AskStream(r.Context(), question, stream.emitProgress)
	rt.recordAsk("ask_stream", envelope.Topic.String(), envelope.Success, len(envelope.Sources), time.Since(start))
	annotateEnvelope(r.Context(), envelope)
	stream.close()
}

func (rt *Router) decodeQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return "", false
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return "", false
	}
	return req.Question, true
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.upload.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		r.FormValue("source_tag"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.ingestor.reader.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) reindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := rt.ingestor.reindex.PublishReindex(r.Context()); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reindex scheduled"})
}

func annotateEnvelope(ctx context.Context, envelope domain.AnswerEnvelope) {
	annotateRequest(ctx,
		"topic", envelope.Topic.String(),
		"grounded", len(envelope.Sources) > 0,
		"enhanced", envelope.EnhancementUsed,
	)
}

func (rt *Router) recordAsk(endpoint, topic string, success bool, sources int, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordAsk(serviceName, endpoint, topic, success, sources, duration)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
