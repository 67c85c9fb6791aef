// Package monitoring provides the zap logger, the Prometheus metrics and the
// OpenTelemetry tracing used across the service.
package monitoring

import (
	"time"

	"github.com/turtacn/loanrisk/internal/domain/service"
)

// MetricsAdapter implements the domain's service.PredictionMetrics interface on top of Prometheus.
// MetricsAdapter 在 Prometheus 之上实现领域层的 service.PredictionMetrics 接口。
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter wraps a concrete Metrics object.
// NewMetricsAdapter 包装具体的 Metrics 对象。
func NewMetricsAdapter(metrics *Metrics) service.PredictionMetrics {
	return &MetricsAdapter{metrics: metrics}
}

// RecordPrediction delegates the call to the underlying Prometheus Metrics object.
// RecordPrediction 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordPrediction(source, label string, duration time.Duration) {
	a.metrics.RecordPrediction(source, label, duration)
}

// RecordClassifierError delegates the call to the underlying Prometheus Metrics object.
// RecordClassifierError 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordClassifierError(kind string) {
	a.metrics.RecordClassifierError(kind)
}

// RecordCacheResult delegates the call to the underlying Prometheus Metrics object.
// RecordCacheResult 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordCacheResult(hit bool) {
	a.metrics.RecordCacheResult(hit)
}
