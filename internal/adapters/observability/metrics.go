package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bank_reviews", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bank_reviews", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bank_reviews", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bank_reviews", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bank_reviews", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|error
	)
	StageRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bank_reviews", Name: "stage_rows_total", Help: "Rows entering and leaving each pipeline stage."},
		[]string{"stage", "direction"}, // direction: in|out
	)
	RowsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bank_reviews", Name: "rows_dropped_total", Help: "Rows excluded by a pipeline stage."},
		[]string{"stage", "reason"},
	)
	SentimentFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bank_reviews", Name: "sentiment_fallbacks_total", Help: "Rows scored neutral because the classifier failed."},
		[]string{"backend"},
	)
)

var (
	regOnce sync.Once
	reg     *prometheus.Registry
)

// InitRegistry returns the process registry holding every collector above.
// It is safe to call more than once.
func InitRegistry() *prometheus.Registry {
	regOnce.Do(func() {
		reg = prometheus.NewRegistry()
		reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
			StageRows, RowsDropped, SentimentFallbacks)
	})
	return reg
}

// Serve exposes /metrics on addr in the background. An empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// ObserveStage records how many rows a stage received and kept.
func ObserveStage(stage string, in, out int) {
	StageRows.WithLabelValues(stage, "in").Add(float64(in))
	StageRows.WithLabelValues(stage, "out").Add(float64(out))
}

func ObserveDropped(stage, reason string, n int) {
	if n <= 0 {
		return
	}
	RowsDropped.WithLabelValues(stage, reason).Add(float64(n))
}

func ObserveSentimentFallback(backend string) {
	SentimentFallbacks.WithLabelValues(backend).Inc()
}
