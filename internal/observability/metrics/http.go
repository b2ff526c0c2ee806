package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	askTotal         *prometheus.CounterVec
	askDuration      *prometheus.HistogramVec
	askTopicTotal    *prometheus.CounterVec
	retrievalHits    *prometheus.CounterVec
	noContextTotal   *prometheus.CounterVec
	retrievedSources *prometheus.HistogramVec
	enhancementTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rainier",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rainier",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rainier",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	askTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "ask_total",
			Help:      "Total guide questions by outcome.",
		},
		[]string{"service", "endpoint", "outcome"},
	)
	askDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "ask_duration_seconds",
			Help:      "Guide pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	askTopicTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "topic_total",
			Help:      "Total guide questions by detected topic.",
		},
		[]string{"service", "topic"},
	)
	retrievalHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "retrieval_hit_total",
			Help:      "Total answers grounded in at least one source.",
		},
		[]string{"service", "endpoint"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "no_context_total",
			Help:      "Total answers produced without retrieved sources.",
		},
		[]string{"service", "endpoint"},
	)
	retrievedSources := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "retrieved_sources",
			Help:      "Distribution of attributed sources per answer.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"service", "endpoint"},
	)
	enhancementTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rainier",
			Subsystem: "guide",
			Name:      "enhancement_total",
			Help:      "Total query enhancement attempts by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		askTotal,
		askDuration,
		askTopicTotal,
		retrievalHits,
		noContextTotal,
		retrievedSources,
		enhancementTotal,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		askTotal:         askTotal,
		askDuration:      askDuration,
		askTopicTotal:    askTopicTotal,
		retrievalHits:    retrievalHits,
		noContextTotal:   noContextTotal,
		retrievedSources: retrievedSources,
		enhancementTotal: enhancementTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := NewResponseRecorder(w)

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

// RecordAsk observes one completed guide pipeline run.
func (m *HTTPServerMetrics) RecordAsk(service, endpoint, topic string, success bool, sourceCount int, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.askTotal.WithLabelValues(service, endpoint, outcome).Inc()
	m.askDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())
	m.askTopicTotal.WithLabelValues(service, topic).Inc()
	m.retrievedSources.WithLabelValues(service, endpoint).Observe(float64(sourceCount))

	if sourceCount > 0 {
		m.retrievalHits.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.noContextTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordEnhancement(service string, used bool) {
	outcome := "used"
	if !used {
		outcome = "fallback"
	}
	m.enhancementTotal.WithLabelValues(service, outcome).Inc()
}

// ResponseRecorder captures the status code and body size a handler
// produced while preserving Flush (SSE streaming depends on it), Hijack
// and Push on the underlying writer. It is shared by the metrics
// middleware and the access log so both report the same observation.
type ResponseRecorder struct {
	http.ResponseWriter
	status       int
	bytesWritten int
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *ResponseRecorder) Status() int { return w.status }

// Unwrap lets http.ResponseController reach the underlying connection
// through the middleware chain.
func (w *ResponseRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *ResponseRecorder) BytesWritten() int { return w.bytesWritten }

func (w *ResponseRecorder) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *ResponseRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *ResponseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *ResponseRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
