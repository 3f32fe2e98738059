package observability

import (
	"context"
	"encoding/json"
	"maps"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is the result of a health check.
type HealthCheckResult struct {
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"duration_ns"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// HealthChecker is a function that performs a health check.
type HealthChecker func(ctx context.Context) HealthCheckResult

func (c HealthChecker) run(ctx context.Context) HealthCheckResult {
	start := time.Now()
	result := c(ctx)
	result.Duration = time.Since(start)
	result.Timestamp = time.Now()
	return result
}

// HealthRegistry runs the health checks of the registry's dependencies.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	last     map[string]HealthCheckResult
}

// NewHealthRegistry creates an empty health registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds or replaces the checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Check runs every checker concurrently and remembers the results.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := maps.Clone(r.checkers)
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Go(func() {
			result := checker.run(ctx)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		})
	}
	wg.Wait()

	r.mu.Lock()
	r.last = results
	r.mu.Unlock()
	return results
}

// CheckOne runs a single health check by name.
func (r *HealthRegistry) CheckOne(ctx context.Context, name string) (HealthCheckResult, bool) {
	r.mu.RLock()
	checker, ok := r.checkers[name]
	r.mu.RUnlock()
	if !ok {
		return HealthCheckResult{}, false
	}
	return checker.run(ctx), true
}

// OverallStatus is the worst status of the last Check. It is healthy before
// the first Check.
func (r *HealthRegistry) OverallStatus() HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overall := HealthStatusHealthy
	for _, result := range r.last {
		if result.Status.severity() > overall.severity() {
			overall = result.Status
		}
	}
	return overall
}

// OverallHealth is the aggregated health report.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs all checks and returns overall health.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	checks := r.Check(ctx)
	return OverallHealth{
		Status:    r.OverallStatus(),
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// ToJSON serializes the overall health to JSON.
func (h OverallHealth) ToJSON() ([]byte, error) {
	return json.Marshal(h)
}

// PingChecker reports component as healthy when ping succeeds and with the
// failure status otherwise.
func PingChecker(component string, failure HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{
				Status:  failure,
				Message: component + " connection failed: " + err.Error(),
			}
		}
		return HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: component + " connection healthy",
		}
	}
}

// RegistryHealthChecker reports whether the lifecycle registry can be
// filled. An empty registry is degraded: queries succeed but nothing is
// configured.
func RegistryHealthChecker(countFunc func(ctx context.Context) (int, error)) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		count, err := countFunc(ctx)
		if err != nil {
			return HealthCheckResult{
				Status:  HealthStatusUnhealthy,
				Message: "lifecycle registry unavailable: " + err.Error(),
			}
		}
		if count == 0 {
			return HealthCheckResult{
				Status:  HealthStatusDegraded,
				Message: "no lifecycles configured",
				Details: map[string]any{"lifecycles": 0},
			}
		}
		return HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: "lifecycle registry loaded",
			Details: map[string]any{"lifecycles": count},
		}
	}
}

// OutboxHealthChecker reports parked events. Any backlog is degraded; a full
// outbox refuses new events and is unhealthy.
func OutboxHealthChecker(pending func(ctx context.Context) (int, error), capacity int) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		n, err := pending(ctx)
		if err != nil {
			return HealthCheckResult{
				Status:  HealthStatusUnhealthy,
				Message: "outbox unavailable: " + err.Error(),
			}
		}
		details := map[string]any{"pending": n, "capacity": capacity}
		switch {
		case capacity > 0 && n >= capacity:
			return HealthCheckResult{Status: HealthStatusUnhealthy, Message: "outbox full", Details: details}
		case n > 0:
			return HealthCheckResult{Status: HealthStatusDegraded, Message: "events awaiting redelivery", Details: details}
		default:
			return HealthCheckResult{Status: HealthStatusHealthy, Message: "outbox empty", Details: details}
		}
	}
}
