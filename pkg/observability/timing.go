package observability

import "time"

// Measure starts timing operation. The returned func records its duration,
// count and, for a non-nil error, an error count, all tagged with the
// operation name.
func Measure(metrics Metrics, operation string) func(err error) time.Duration {
	start := time.Now()
	return func(err error) time.Duration {
		elapsed := time.Since(start)
		if metrics == nil {
			return elapsed
		}
		tag := T("operation", operation)
		metrics.Timing(MetricOperationDuration, elapsed, tag)
		metrics.Counter(MetricOperationTotal, 1, tag)
		if err != nil {
			metrics.Counter(MetricOperationErrors, 1, tag)
		}
		return elapsed
	}
}
