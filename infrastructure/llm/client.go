// Package llm wraps the language-model providers used by the extraction
// step behind a single client interface. Provider specifics (OpenAI,
// Anthropic, Google) live in per-provider files; cross-cutting concerns such
// as rate limiting, timeouts, metrics, and tracing compose as middleware
// around the core request function.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o",
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(2, 4),
//	        llm.TimeoutMiddleware(60 * time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/mhagen/kitchendata/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends prompt to the provider and returns the response
	// text plus input/output token counts.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model name.
	GetModel() string

	// SetModel switches the model used by subsequent requests.
	SetModel(model string)
}

// Middleware wraps a CoreLLM with additional behavior. Middleware listed
// first in ClientConfig ends up outermost.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig carries everything needed to construct a provider client.
// It is passed in at construction rather than read from ambient state so
// concurrent workers and tests can hold distinct configurations.
type ClientConfig struct {
	// APIKey authenticates against the provider. Never logged.
	APIKey string

	// Model selects the provider model. Empty selects the provider
	// default.
	Model string

	// BaseURL overrides the provider endpoint; empty uses the default.
	BaseURL string

	// Timeout bounds each HTTP request. Zero means provider default.
	Timeout time.Duration

	// Middleware is applied around the provider in the order given.
	Middleware []Middleware
}

// Client adapts a middleware-wrapped CoreLLM to ports.LLMClient.
type Client struct {
	core CoreLLM
}

var _ ports.LLMClient = (*Client)(nil)

// ProviderFactory builds a CoreLLM from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider under a name. Providers in
// this package self-register from init.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// NewClient constructs a client for the named provider and applies the
// configured middleware chain.
func NewClient(provider string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	// Reverse order so the first middleware is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a prompt and returns the response text, discarding usage.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response text along
// with input and output token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// GetModel returns the model name of the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }
