package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	Predictions       *prometheus.CounterVec
	PredictionLatency *prometheus.HistogramVec
	ClassifierErrors  *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec

	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
	HTTPActiveRequests *prometheus.GaugeVec
}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	ns := constants.ServiceName

	return &Metrics{
		Predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "predictions_total",
				Help:      "Total number of completed predictions.",
			},
			[]string{"label", "source"},
		),
		PredictionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "prediction_latency_seconds",
				Help:      "Latency of prediction requests including cache lookups.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		ClassifierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "classifier_errors_total",
				Help:      "Total number of failed classifier invocations by error code.",
			},
			[]string{"kind"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "prediction_cache_total",
				Help:      "Prediction cache lookups by result.",
			},
			[]string{"result"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPActiveRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Name:      "http_active_requests",
				Help:      "HTTP requests currently being served.",
			},
			[]string{"method", "path"},
		),
	}
}

// RecordPrediction records one completed prediction.
func (m *Metrics) RecordPrediction(source, label string, duration time.Duration) {
	m.Predictions.WithLabelValues(label, source).Inc()
	m.PredictionLatency.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordClassifierError counts a failed prediction by error code.
func (m *Metrics) RecordClassifierError(kind string) {
	m.ClassifierErrors.WithLabelValues(kind).Inc()
}

// RecordCacheResult counts a prediction cache hit or miss.
func (m *Metrics) RecordCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

//Personal.AI order the ending
