package model

import "time"

// Config is the full ClaimTrackr configuration tree
type Config struct {
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// ScoringConfig holds the fraud engine settings
type ScoringConfig struct {
	// Exclusions is the general exclusion list, matched in order
	Exclusions []string `yaml:"exclusions" mapstructure:"exclusions"`

	// CurrencySymbol prefixes amounts in human-readable details
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// LLMConfig configures the bill extraction and narrative collaborators
type LLMConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" = disabled
	Model           string `yaml:"model" mapstructure:"model"`           // narrative model
	ExtractionModel string `yaml:"extraction_model" mapstructure:"extraction_model"`
	EmbeddingModel  string `yaml:"embedding_model" mapstructure:"embedding_model"` // only checked by status
	APIKey          string `yaml:"-" mapstructure:"api_key"`
	BaseURL         string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout         int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens       int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy       string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy      string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	PolicyFile      string `yaml:"policy_file,omitempty" mapstructure:"policy_file"`
}

// CacheConfig configures the bill extraction cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig selects the historical claim store
type StoreConfig struct {
	Backend   string `yaml:"backend" mapstructure:"backend"` // memory, postgres, redis
	DSN       string `yaml:"dsn,omitempty" mapstructure:"dsn"`
	Table     string `yaml:"table" mapstructure:"table"`
	RedisAddr string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisDB   int    `yaml:"redis_db" mapstructure:"redis_db"`
	RedisKey  string `yaml:"redis_key" mapstructure:"redis_key"`
}

// ConcurrencyConfig controls batch evaluation
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles calls to LLM providers
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// LoggingConfig controls the zerolog setup
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// DefaultExclusions is the general exclusion list applied when none is configured
func DefaultExclusions() []string {
	return []string{
		"HIV/AIDS",
		"Parkinson's disease",
		"Alzheimer's disease",
		"pregnancy",
		"substance abuse",
		"self-inflicted injuries",
		"sexually transmitted diseases",
		"STD",
		"pre-existing conditions",
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Exclusions:     DefaultExclusions(),
			CurrencySymbol: "₹",
		},
		LLM: LLMConfig{
			Provider:        "", // Disabled by default
			Model:           "llama3.2",
			ExtractionModel: "llama3.2",
			EmbeddingModel:  "nomic-embed-text",
			Timeout:         120,
			MaxTokens:       2000,
			MaxRetries:      3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".claimtrackr-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Backend:  "memory",
			Table:    "claims",
			RedisKey: "claimtrackr:claims",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
