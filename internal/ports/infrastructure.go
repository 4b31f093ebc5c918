package ports

import (
	"context"
	"time"
)

// LLMClient is the interface the extraction layer uses to talk to a
// language-model provider. Implementations handle authentication, request
// formatting, and response parsing; callers must treat the returned text
// as untrusted until it has been validated.
type LLMClient interface {
	// Complete sends a prompt and returns the generated text.
	// The options map carries provider-level settings such as
	// "temperature", "max_tokens", "system", and "response_format".
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// CompleteWithUsage is Complete plus input/output token counts,
	// for cost accounting.
	CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// MetricsCollector abstracts the metrics backend so pipeline and LLM code
// can record observations without depending on Prometheus directly.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric by value.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
