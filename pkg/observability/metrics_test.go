package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()
	var _ Metrics = m
	var _ Metrics = NoopMetrics{}

	m.Counter(MetricRegistryMutations, 1, T("operation", "create"))
	m.Counter(MetricRegistryMutations, 2, T("operation", "create"))
	m.Counter(MetricRegistryMutations, 1, T("operation", "set_map"))
	m.Gauge(MetricRegistryLifecycles, 3)
	m.Gauge(MetricRegistryLifecycles, 4)
	m.Histogram("payload_bytes", 120)
	m.Histogram("payload_bytes", 80)
	m.Timing(MetricRegistryRebuildSeconds, 5*time.Millisecond)

	assert.Equal(t, int64(3), m.GetCounter(MetricRegistryMutations, T("operation", "create")))
	assert.Equal(t, int64(1), m.GetCounter(MetricRegistryMutations, T("operation", "set_map")))
	assert.Zero(t, m.GetCounter(MetricRegistryMutations))
	assert.Equal(t, 4.0, m.GetGauge(MetricRegistryLifecycles))
	assert.Equal(t, []float64{120, 80}, m.GetHistogram("payload_bytes"))
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, m.GetTimings(MetricRegistryRebuildSeconds))

	m.Reset()
	assert.Zero(t, m.GetCounter(MetricRegistryMutations, T("operation", "create")))
	assert.Empty(t, m.GetHistogram("payload_bytes"))
}

func TestInMemoryMetrics_ReadsAreCopies(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Histogram("payload_bytes", 1)

	samples := m.GetHistogram("payload_bytes")
	samples[0] = 99

	assert.Equal(t, []float64{1}, m.GetHistogram("payload_bytes"))
}

func TestSeriesKey(t *testing.T) {
	tests := []struct {
		name string
		tags []Tag
		want string
	}{
		{name: "no tags", want: "lifecycles.store.loads"},
		{name: "single tag", tags: []Tag{T("store", "redis")}, want: "lifecycles.store.loads{store=redis}"},
		{name: "sorted tags", tags: []Tag{T("store", "redis"), T("outcome", "ok")}, want: "lifecycles.store.loads{outcome=ok,store=redis}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seriesKey(MetricStoreLoads, tt.tags))
		})
	}
}

func TestInMemoryMetrics_TagOrder(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Counter(MetricStoreLoads, 1, T("store", "sqlite"), T("outcome", "ok"))

	assert.Equal(t, int64(1), m.GetCounter(MetricStoreLoads, T("outcome", "ok"), T("store", "sqlite")))
}
