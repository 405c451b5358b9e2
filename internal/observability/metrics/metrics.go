package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AssistantMetrics tracks HTTP traffic plus the assistant pipeline
// counters: classified intents, retrieval outcomes, answer latency.
type AssistantMetrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	intentsTotal    *prometheus.CounterVec
	retrievalHits   prometheus.Counter
	retrievalMisses prometheus.Counter
	answerDuration  prometheus.Histogram
}

func New() *AssistantMetrics {
	m := &AssistantMetrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration by path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_intents_total",
			Help: "Classified intents by label.",
		}, []string{"intent"}),
		retrievalHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistant_retrieval_hits_total",
			Help: "Queries that retrieved at least one document.",
		}),
		retrievalMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistant_retrieval_misses_total",
			Help: "Queries answered with the no-results message.",
		}),
		answerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_answer_duration_seconds",
			Help:    "End-to-end answer generation duration.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
		m.intentsTotal,
		m.retrievalHits,
		m.retrievalMisses,
		m.answerDuration,
	)
	return m
}

func (m *AssistantMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *AssistantMetrics) ObserveIntent(intent string) {
	m.intentsTotal.WithLabelValues(intent).Inc()
}

func (m *AssistantMetrics) ObserveRetrieval(hit bool) {
	if hit {
		m.retrievalHits.Inc()
		return
	}
	m.retrievalMisses.Inc()
}

func (m *AssistantMetrics) ObserveAnswerDuration(d time.Duration) {
	m.answerDuration.Observe(d.Seconds())
}

// Middleware records request counts, durations and in-flight gauge for
// every handler it wraps.
func (m *AssistantMetrics) Middleware(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.requestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
