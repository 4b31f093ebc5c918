// Package metrics implements the ports.MetricsCollector interface on top
// of Prometheus, covering both pipeline-level counters (episodes accepted,
// repaired, skipped) and per-request LLM metrics.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mhagen/kitchendata/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics registers collectors on demand, one vector per metric
// name. Label names are fixed by the first observation of a metric; later
// observations must use the same label set.
type PrometheusMetrics struct {
	registry prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a collector that registers its metrics on
// reg. Pass prometheus.DefaultRegisterer in production; tests use a fresh
// registry to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registry:   reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// RecordLatency records an operation duration as a histogram in seconds.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.RecordHistogram(operation+"_duration_seconds", duration.Seconds(), labels)
}

// RecordCounter increments a counter metric by value.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	names, values := splitLabels(labels)

	pm.mu.Lock()
	vec, ok := pm.counters[metric]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric}, names)
		pm.registry.MustRegister(vec)
		pm.counters[metric] = vec
	}
	pm.mu.Unlock()

	vec.WithLabelValues(values...).Add(value)
}

// RecordGauge sets the current value of a gauge metric.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	names, values := splitLabels(labels)

	pm.mu.Lock()
	vec, ok := pm.gauges[metric]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric}, names)
		pm.registry.MustRegister(vec)
		pm.gauges[metric] = vec
	}
	pm.mu.Unlock()

	vec.WithLabelValues(values...).Set(value)
}

// RecordHistogram records a value in a histogram with default buckets.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	names, values := splitLabels(labels)

	pm.mu.Lock()
	vec, ok := pm.histograms[metric]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metric,
			Buckets: prometheus.DefBuckets,
		}, names)
		pm.registry.MustRegister(vec)
		pm.histograms[metric] = vec
	}
	pm.mu.Unlock()

	vec.WithLabelValues(values...).Observe(value)
}

// splitLabels returns label names sorted for a stable vector definition
// and the matching values in the same order.
func splitLabels(labels map[string]string) ([]string, []string) {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)

	values := make([]string, len(names))
	for i, k := range names {
		values[i] = labels[k]
	}
	return names, values
}
