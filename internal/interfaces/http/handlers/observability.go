package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/turtacn/loanrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// ObservabilityMiddleware returns a Gin middleware that integrates Prometheus metrics and OpenTelemetry tracing.
// For each HTTP request, it starts a new trace span and records metrics for request totals and duration.
// The metrics are labeled with the HTTP method, request path (template), and status code for detailed monitoring.
// ObservabilityMiddleware 返回一个集成了 Prometheus 指标和 OpenTelemetry 跟踪的 Gin 中间件。
// 对于每个 HTTP 请求，它会启动一个新的跟踪范围并记录请求总数和持续时间的指标。
func ObservabilityMiddleware(tracing *monitoring.TracingManager, metrics HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Use c.FullPath() to get the route template for low-cardinality metric labels.
		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}
		method := c.Request.Method

		ctx := tracing.ExtractTraceContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracing.StartSpan(ctx, method+" "+path,
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		)
		defer span.End()

		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			c.Set(string(constants.ContextKeyTraceID), traceID)
		}
		c.Request = c.Request.WithContext(ctx)

		metrics.ActiveRequestsInc(path, method)
		defer metrics.ActiveRequestsDec(path, method)

		c.Next()

		status := c.Writer.Status()
		metrics.ObserveRequestDuration(path, method, status, time.Since(start).Seconds())
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("http.client_ip", c.ClientIP()),
		)
	}
}
