package monitoring

import "strconv"

// HTTP request metrics, called by the observability middleware.
// path is the matched route template, never the raw URL.

func (m *Metrics) ActiveRequestsInc(path, method string) {
	m.HTTPActiveRequests.WithLabelValues(method, path).Inc()
}

func (m *Metrics) ActiveRequestsDec(path, method string) {
	m.HTTPActiveRequests.WithLabelValues(method, path).Dec()
}

func (m *Metrics) ObserveRequestDuration(path, method string, status int, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestLatency.WithLabelValues(method, path).Observe(seconds)
}
