package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	crawlsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_crawls_total",
			Help: "Full catalog crawls by result.",
		},
		[]string{"result"},
	)
	crawlDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_crawl_duration_seconds",
			Help:    "Duration of full catalog crawls.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	productsSynced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_synced_total",
			Help: "Products transformed and upserted.",
		},
	)
	throttleWaits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopify_throttle_waits_total",
			Help: "Backoffs taken because the query cost budget ran low.",
		},
	)
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_events_total",
			Help: "Sync events processed by type and result.",
		},
		[]string{"type", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		crawlsTotal,
		crawlDuration,
		productsSynced,
		throttleWaits,
		eventsTotal,
	)
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordCrawl(err error, duration time.Duration) {
	crawlsTotal.WithLabelValues(result(err)).Inc()
	crawlDuration.Observe(duration.Seconds())
}

func ProductSynced() {
	productsSynced.Inc()
}

func ThrottleWait() {
	throttleWaits.Inc()
}

func RecordEvent(eventType string, err error) {
	eventsTotal.WithLabelValues(eventType, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func classifyStatus(statusCode int) string {
	if statusCode >= 100 && statusCode < 600 {
		return strconv.Itoa(statusCode/100) + "xx"
	}
	return "unknown"
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.Handler()
}
