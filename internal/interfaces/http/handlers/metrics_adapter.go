package handlers

// HTTPMetrics receives per-request measurements from ObservabilityMiddleware.
// *monitoring.Metrics implements it.
type HTTPMetrics interface {
	ActiveRequestsInc(path, method string)
	ActiveRequestsDec(path, method string)
	ObserveRequestDuration(path, method string, status int, seconds float64)
}
