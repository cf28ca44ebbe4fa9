package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	seriesLoads *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// New returns the process-wide Prometheus recorder. Collectors are registered once.
func New() *Recorder {
	recorderOnce.Do(func() {
		recorder = &Recorder{
			seriesLoads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cryptobasket_series_loads_total",
					Help: "Series loads by symbol and resulting provenance",
				},
				[]string{"symbol", "provenance"},
			),
			fallbacks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cryptobasket_fallbacks_total",
					Help: "Number of times a component degraded to fallback or synthetic data",
				},
				[]string{"component"},
			),
			errorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cryptobasket_errors_total",
					Help: "Total number of errors encountered",
				},
				[]string{"type"},
			),
			lastPrice: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "cryptobasket_last_close",
					Help: "Latest close price for a symbol",
				},
				[]string{"symbol"},
			),
			latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "cryptobasket_operation_duration_seconds",
					Help:    "Duration of operations in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"operation"},
			),
		}
	})
	return recorder
}

// RecordSeriesLoad records one series load and the provenance it ended with.
func (r *Recorder) RecordSeriesLoad(symbol, provenance string) {
	r.seriesLoads.WithLabelValues(symbol, provenance).Inc()
}

// RecordFallback records a degradation in the named component.
func (r *Recorder) RecordFallback(component string) {
	r.fallbacks.WithLabelValues(component).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
