package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	vendorRequestCounter  *prometheus.CounterVec
	vendorDurationHist    *prometheus.HistogramVec
	countryUpdateCounter  *prometheus.CounterVec
	batchRecoveryCounter  *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		vendorRequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendor_requests_total",
			Help: "Outbound vendor API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"})

		vendorDurationHist = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vendor_request_duration_seconds",
			Help:    "Outbound vendor API latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"endpoint"})

		countryUpdateCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "country_update_outcomes_total",
			Help: "Country update workflow results",
		}, []string{"result"})

		batchRecoveryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_recovery_total",
			Help: "Open batch recovery attempts by result",
		}, []string{"result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			vendorRequestCounter,
			vendorDurationHist,
			countryUpdateCounter,
			batchRecoveryCounter,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func ObserveVendorCall(endpoint, outcome string, duration time.Duration) {
	if vendorRequestCounter == nil {
		return
	}
	vendorRequestCounter.WithLabelValues(endpoint, outcome).Inc()
	vendorDurationHist.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func IncrementCountryUpdate(result string) {
	if countryUpdateCounter == nil {
		return
	}
	countryUpdateCounter.WithLabelValues(result).Inc()
}

func IncrementBatchRecovery(result string) {
	if batchRecoveryCounter == nil {
		return
	}
	batchRecoveryCounter.WithLabelValues(result).Inc()
}
