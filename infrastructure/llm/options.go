package llm

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Parameter bounds shared across providers.
const (
	// DefaultMaxTokens is used when a request does not set max_tokens.
	DefaultMaxTokens = 1024
	// MinTimeout is the smallest accepted request timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the largest accepted request timeout.
	MaxTimeout = 10 * time.Minute
)

// BaseProvider holds the mutable model name shared by provider
// implementations. Safe for concurrent use.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the currently configured model name.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model name for subsequent requests.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// RequestOptions is the standardized option set parsed out of the generic
// options map before a provider call.
type RequestOptions struct {
	// MaxTokens bounds the generated output length.
	MaxTokens int
	// Model overrides the provider's configured model for this request.
	Model string
	// Temperature controls sampling randomness; nil uses the provider
	// default.
	Temperature *float64
	// System is the system prompt, where the provider supports one.
	System string
	// JSONMode requests a structured-JSON response where supported.
	JSONMode bool
	// Extra holds provider-specific options not covered above.
	Extra map[string]any
}

// ParseRequestOptions extracts standardized request parameters from opts,
// falling back to defaults for missing or invalid entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens),
		Model:     extractString(opts, "model", defaultModel),
		System:    extractString(opts, "system", ""),
		Extra:     make(map[string]any),
	}

	if temp, ok := extractFloat(opts, "temperature"); ok && temp >= 0 && temp <= 2 {
		options.Temperature = &temp
	}

	if rf, ok := opts["response_format"].(map[string]string); ok && rf["type"] == "json_object" {
		options.JSONMode = true
	}

	for k, v := range opts {
		switch k {
		case "max_tokens", "model", "system", "temperature", "response_format":
		default:
			options.Extra[k] = v
		}
	}

	return options
}

func extractInt(opts map[string]any, key string, def int) int {
	if v, ok := opts[key].(int); ok && v > 0 {
		return v
	}
	return def
}

func extractString(opts map[string]any, key, def string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return def
}

func extractFloat(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// TokenCounter estimates token counts when the provider does not report
// usage. The character ratio is a rough approximation adequate for rate
// limiting and cost tracking.
type TokenCounter struct {
	CharactersPerToken float64
}

// NewTokenCounter returns a counter with the default ratio.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens approximates the token count of text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount prefers the provider-reported count, estimating only when
// the report is absent.
func (tc *TokenCounter) GetTokenCount(actual int, text string) int {
	if actual > 0 {
		return actual
	}
	return tc.EstimateTokens(text)
}

// ValidateBaseURL checks that an endpoint override is a well-formed http(s)
// URL. Empty means the provider default and is valid.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}
	return parsed.String(), nil
}

// ValidateTimeout clamps a timeout into [MinTimeout, MaxTimeout]; zero or
// negative means the provider default.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

func clampFloat(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
