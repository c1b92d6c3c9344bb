// Package llm talks to the language models used for bill extraction and
// decision narratives. Models never influence the fraud score.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Provider is a text completion backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate runs one completion
	Generate(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks that the backend is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Request is a single completion call
type Request struct {
	System      string
	Prompt      string
	Model       string // falls back to Config.Model
	MaxTokens   int    // falls back to Config.MaxTokens
	Temperature float64
}

// Response is the completion output
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider settings
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model writes decision narratives
	Model string

	// ExtractionModel reads bills; empty means Model
	ExtractionModel string

	// EmbeddingModel is only checked for presence on Ollama
	EmbeddingModel string

	APIKey  string
	BaseURL string

	Timeout    int // seconds
	MaxTokens  int
	MaxRetries int

	RequestsPerSecond float64
	Burst             int

	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns settings with the LLM disabled
func DefaultConfig() Config {
	return Config{
		Timeout:           120,
		MaxTokens:         2000,
		MaxRetries:        3,
		RequestsPerSecond: 2,
		Burst:             2,
	}
}

// StatusError is a non-200 answer from a provider API
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Code, e.Message)
}

// Retryable reports whether the call may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

func (c Config) resolve(req Request) (model string, maxTokens int) {
	model = req.Model
	if model == "" {
		model = c.Model
	}
	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}
	return model, maxTokens
}
