package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counter(t *testing.T) {
	registry := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(registry)

	pm.RecordCounter("episodes_total", 1, map[string]string{"status": "accepted"})
	pm.RecordCounter("episodes_total", 2, map[string]string{"status": "accepted"})
	pm.RecordCounter("episodes_total", 1, map[string]string{"status": "rejected"})

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "episodes_total", families[0].GetName())
	assert.Len(t, families[0].GetMetric(), 2)
}

func TestPrometheusMetrics_Gauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(registry)

	pm.RecordGauge("workers_active", 4, nil)
	pm.RecordGauge("workers_active", 2, nil)

	count := testutil.CollectAndCount(mustGauge(t, pm, "workers_active"))
	assert.Equal(t, 1, count)
}

func TestPrometheusMetrics_LatencyIsHistogramInSeconds(t *testing.T) {
	registry := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(registry)

	pm.RecordLatency("llm_request", 250*time.Millisecond, map[string]string{"provider": "openai"})

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "llm_request_duration_seconds", families[0].GetName())
}

func TestPrometheusMetrics_LabelOrderIsStable(t *testing.T) {
	registry := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(registry)

	// Same label set written with different map iteration orders must
	// land on the same series.
	pm.RecordCounter("ops_total", 1, map[string]string{"a": "1", "b": "2"})
	pm.RecordCounter("ops_total", 1, map[string]string{"b": "2", "a": "1"})

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families[0].GetMetric(), 1)
	assert.InDelta(t, 2.0, families[0].GetMetric()[0].GetCounter().GetValue(), 1e-9)
}

func mustGauge(t *testing.T, pm *PrometheusMetrics, name string) prometheus.Collector {
	t.Helper()
	pm.mu.Lock()
	defer pm.mu.Unlock()
	vec, ok := pm.gauges[name]
	require.True(t, ok)
	return vec
}
