package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/mhagen/kitchendata/internal/ports"
)

// Default retry settings.
const (
	// DefaultMaxAttempts is the total attempt budget including the first
	// call.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the delay before the first retry.
	DefaultBaseDelay = 1 * time.Second
	// DefaultMaxDelay caps the exponential backoff.
	DefaultMaxDelay = 30 * time.Second
	// DefaultJitterPercent randomizes each delay to avoid request storms.
	DefaultJitterPercent = 0.1
)

// RetryConfig controls the exponential backoff applied to transient
// provider failures.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts; 1 disables retries.
	MaxAttempts int
	// BaseDelay is the initial retry delay, doubled per attempt.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
	// JitterPercent adds +/- this fraction of the delay at random.
	JitterPercent float64
}

// DefaultRetryConfig returns the default retry settings.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   DefaultMaxAttempts,
		BaseDelay:     DefaultBaseDelay,
		MaxDelay:      DefaultMaxDelay,
		JitterPercent: DefaultJitterPercent,
	}
}

var _ ports.LLMClient = (*RetryingClient)(nil)

// RetryingClient wraps an LLMClient with bounded retry. Non-retryable
// failures (authentication, bad requests) fail immediately; transient
// failures are retried with exponential backoff and jitter until the
// attempt budget is spent.
type RetryingClient struct {
	client ports.LLMClient
	config RetryConfig
}

// NewRetryingClient wraps client with the given retry configuration.
func NewRetryingClient(client ports.LLMClient, config RetryConfig) *RetryingClient {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultBaseDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultMaxDelay
	}
	return &RetryingClient{client: client, config: config}
}

// Complete sends a completion request, retrying transient failures.
func (r *RetryingClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := r.CompleteWithUsage(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a completion request with usage tracking,
// retrying transient failures.
func (r *RetryingClient) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	var lastErr error
	attempts := 0
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		response, tokensIn, tokensOut, err := r.client.CompleteWithUsage(ctx, prompt, options)
		attempts = attempt + 1
		if err == nil {
			return response, tokensIn, tokensOut, nil
		}

		lastErr = err
		if attempt == r.config.MaxAttempts-1 || !isRetryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		case <-time.After(r.retryDelay(attempt)):
		}
	}

	return "", 0, 0, &AttemptError{Attempts: attempts, Err: lastErr}
}

// GetModel returns the model identifier of the wrapped client.
func (r *RetryingClient) GetModel() string { return r.client.GetModel() }

// MaxAttempts exposes the configured attempt budget.
func (r *RetryingClient) MaxAttempts() int { return r.config.MaxAttempts }

// isRetryable prefers the classified ProviderError; unclassified errors
// fall back to matching common transient failure messages.
func isRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.IsRetryable()
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"rate limit", "too many requests", "timeout", "connection refused",
		"connection reset", "temporary failure", "service unavailable",
		"bad gateway", "gateway timeout", "network",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func (r *RetryingClient) retryDelay(attempt int) time.Duration {
	delay := r.config.BaseDelay * time.Duration(1<<attempt)
	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if jitter := int64(float64(delay) * r.config.JitterPercent); jitter > 0 {
		//nolint:gosec // G404: math/rand is fine for jitter timing.
		delay += time.Duration(rand.Int64N(2*jitter) - jitter)
	}

	if delay < r.config.BaseDelay {
		return r.config.BaseDelay
	}
	return delay
}
