package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Provider abstracts a chat-completion backend (Ollama, OpenAI-compatible servers).
type Provider interface {
	// Complete sends a system/user pair and returns the text response.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
}

// CompletionRequest is a provider-agnostic request.
type CompletionRequest struct {
	// Model overrides the provider's configured model when non-empty.
	Model     string
	System    string
	User      string
	MaxTokens int
}

// Options configures a provider.
type Options struct {
	BaseURL string
	Model   string
	APIKey  string
	// Timeout bounds each HTTP request. Zero leaves the net/http default (no timeout).
	Timeout time.Duration
}

const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultOpenAIURL = "http://localhost:8080"
	DefaultModel     = "llama2"
)

// NewProvider creates the appropriate Provider based on the provider name.
func NewProvider(name string, opts Options) (Provider, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	client := http.Client{Timeout: opts.Timeout}

	switch name {
	case "ollama", "":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		p := NewOllamaProvider(baseURL, opts.Model)
		p.http = client
		return p, nil
	case "openai":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = DefaultOpenAIURL
		}
		p := NewOpenAIProvider(baseURL, opts.APIKey, opts.Model)
		p.http = client
		return p, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q (supported: ollama, openai)", name)
	}
}
