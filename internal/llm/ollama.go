package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultOllamaURL is where a local Ollama listens
const DefaultOllamaURL = "http://localhost:11434"

// OllamaProvider calls a local Ollama server
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a provider; a model name is required
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.2)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(config, 120*time.Second),
		config:     config,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable reports whether the server answers and every configured model
// is pulled
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	missing, err := p.MissingModels(ctx)
	if err != nil {
		log.Warn().Err(err).Str("base_url", p.baseURL).Msg("ollama availability check failed")
		return false
	}
	if len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("ollama models not pulled")
		return false
	}
	return true
}

// RequiredModels lists the distinct configured model names
func (p *OllamaProvider) RequiredModels() []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range []string{p.config.Model, p.config.ExtractionModel, p.config.EmbeddingModel} {
		if m != "" && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// MissingModels returns the required models absent from /api/tags. A pulled
// name counts when it contains the required one, so "llama3.2" matches
// "llama3.2:latest".
func (p *OllamaProvider) MissingModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}

	var tags ollamaTags
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}

	missing := []string{}
	for _, required := range p.RequiredModels() {
		found := false
		for _, m := range tags.Models {
			if strings.Contains(m.Name, required) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	return missing, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	model, maxTokens := p.config.resolve(req)

	payload, err := json.Marshal(ollamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.System,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := p.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	text := strings.TrimSpace(resp.Response)
	tokens := resp.PromptEvalCount + resp.EvalCount
	if tokens == 0 {
		// Rough estimate at 4 characters per token
		tokens = (len(req.Prompt) + len(text)) / 4
	}

	return &Response{Text: text, Model: resp.Model, TokensUsed: tokens}, nil
}

func (p *OllamaProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to Ollama at %s: %w", p.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		msg := string(body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}
	return body, nil
}
