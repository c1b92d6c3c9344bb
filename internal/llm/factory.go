package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// NewProvider creates the provider named in config. It returns nil, nil when
// no provider is configured.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		if config.APIKey == "" {
			config.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		if config.APIKey == "" {
			config.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		return NewAnthropicProvider(config)

	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// NewGuardedProvider creates the configured provider wrapped in a Guard
func NewGuardedProvider(config Config) (Provider, error) {
	p, err := NewProvider(config)
	if err != nil || p == nil {
		return nil, err
	}
	limiter := NewRateLimiter(config.RequestsPerSecond, config.Burst)
	return NewGuard(p, limiter, config.MaxRetries), nil
}

// ConfigFromModel converts the application config to a provider config
func ConfigFromModel(llmCfg model.LLMConfig, rl model.RateLimitingConfig) Config {
	return Config{
		Provider:          llmCfg.Provider,
		Model:             llmCfg.Model,
		ExtractionModel:   llmCfg.ExtractionModel,
		EmbeddingModel:    llmCfg.EmbeddingModel,
		APIKey:            llmCfg.APIKey,
		BaseURL:           llmCfg.BaseURL,
		Timeout:           llmCfg.Timeout,
		MaxTokens:         llmCfg.MaxTokens,
		MaxRetries:        llmCfg.MaxRetries,
		RequestsPerSecond: rl.RequestsPerSecond,
		Burst:             rl.BurstSize,
		HTTPProxy:         llmCfg.HTTPProxy,
		HTTPSProxy:        llmCfg.HTTPSProxy,
	}
}
