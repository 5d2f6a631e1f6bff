package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fivetwenty-io/uc-client/internal/constants"
)

// Metrics holds the Prometheus collectors for API requests. A nil *Metrics
// records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics registers the collectors with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uc_client_requests_total",
				Help: "Total number of API requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uc_client_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uc_client_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"method", "endpoint"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uc_client_errors_total",
				Help: "Total number of requests that failed without a response",
			},
			[]string{"method", "endpoint"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uc_client_cache_hits_total",
				Help: "Total number of responses served from the cache",
			},
			[]string{"method", "endpoint"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uc_client_cache_misses_total",
				Help: "Total number of cacheable requests not found in the cache",
			},
			[]string{"method", "endpoint"},
		),
	}
}

func (m *Metrics) recordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	endpoint := endpointLabel(path)
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status), endpoint).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *Metrics) recordRetry(method, path string) {
	if m == nil {
		return
	}

	m.retriesTotal.WithLabelValues(method, endpointLabel(path)).Inc()
}

func (m *Metrics) recordError(method, path string) {
	if m == nil {
		return
	}

	m.errorsTotal.WithLabelValues(method, endpointLabel(path)).Inc()
}

func (m *Metrics) recordCache(method, path string, hit bool) {
	if m == nil {
		return
	}

	if hit {
		m.cacheHits.WithLabelValues(method, endpointLabel(path)).Inc()
	} else {
		m.cacheMisses.WithLabelValues(method, endpointLabel(path)).Inc()
	}
}

// endpointLabel reduces a request path to its resource collection so that
// resource names do not blow up label cardinality.
func endpointLabel(path string) string {
	rest := strings.TrimPrefix(path, constants.APIBasePath)
	rest = strings.TrimPrefix(rest, "/")

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}

	if rest == "" {
		return "other"
	}

	return rest
}
