package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics records counters, gauges and distributions. Tags label a series;
// their order does not matter.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is a series label.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Histogram(string, float64, ...Tag)    {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

type series struct {
	count   int64
	gauge   float64
	samples []float64
	timings []time.Duration
}

// InMemoryMetrics keeps every series in memory. It backs the health and
// debug surfaces and the tests.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) update(name string, tags []Tag, fn func(s *series)) {
	key := seriesKey(name, tags)
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	fn(s)
}

func (m *InMemoryMetrics) read(name string, tags []Tag) series {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.series[seriesKey(name, tags)]; ok {
		return series{
			count:   s.count,
			gauge:   s.gauge,
			samples: slices.Clone(s.samples),
			timings: slices.Clone(s.timings),
		}
	}
	return series{}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.count += value })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.gauge = value })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.samples = append(s.samples, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.timings = append(s.timings, duration) })
}

// GetCounter returns the sum of a counter series.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	return m.read(name, tags).count
}

// GetGauge returns the last value of a gauge series.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	return m.read(name, tags).gauge
}

// GetHistogram returns the recorded samples of a histogram series.
func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	return m.read(name, tags).samples
}

// GetTimings returns the recorded durations of a timing series.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	return m.read(name, tags).timings
}

// Reset drops every series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.series)
}

// seriesKey renders name{k=v,...} with tags sorted by key.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Metric names recorded by the lifecycle registry and its stores.
const (
	// Operation metrics
	MetricOperationTotal    = "lifecycles.operation.total"
	MetricOperationDuration = "lifecycles.operation.duration"
	MetricOperationErrors   = "lifecycles.operation.errors"

	// Registry metrics
	MetricRegistryRebuilds       = "lifecycles.registry.rebuilds"
	MetricRegistryRebuildSeconds = "lifecycles.registry.rebuild_duration"
	MetricRegistryLifecycles     = "lifecycles.registry.lifecycles"
	MetricRegistryMutations      = "lifecycles.registry.mutations"
	MetricRegistryRollbacks      = "lifecycles.registry.rollbacks"

	// Store metrics
	MetricStoreLoads        = "lifecycles.store.loads"
	MetricStorePersists     = "lifecycles.store.persists"
	MetricStoreBreakerState = "lifecycles.store.breaker_state"

	// Event bus metrics
	MetricEventsPublished = "lifecycles.events.published"
	MetricEventsConsumed  = "lifecycles.events.consumed"

	// Outbox metrics
	MetricOutboxDelivered    = "lifecycles.outbox.delivered"
	MetricOutboxRetried      = "lifecycles.outbox.retried"
	MetricOutboxDeadLettered = "lifecycles.outbox.dead_lettered"
)
