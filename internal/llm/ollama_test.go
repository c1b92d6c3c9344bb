package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("Expected stream to be disabled")
		}
		if req.Model != "llama3.2" {
			t.Errorf("Expected model llama3.2, got %s", req.Model)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3.2",
			Response:        `{"disease": "malaria", "expense": 1200}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), Request{Prompt: "extract"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'llama3.2' not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2", Timeout: 5})
	_, err := provider.Generate(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if retryable(err) {
		t.Error("Expected 404 to be permanent")
	}
}

func TestOllamaProvider_MissingModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.2:latest"}, {"name": "mistral:7b"}]}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{
		BaseURL:         server.URL,
		Model:           "llama3.2",
		ExtractionModel: "llama3.2",
		EmbeddingModel:  "nomic-embed-text",
		Timeout:         5,
	})

	if got := provider.RequiredModels(); len(got) != 2 {
		t.Errorf("Expected 2 distinct required models, got %v", got)
	}

	missing, err := provider.MissingModels(context.Background())
	if err != nil {
		t.Fatalf("MissingModels failed: %v", err)
	}
	if len(missing) != 1 || missing[0] != "nomic-embed-text" {
		t.Errorf("Expected nomic-embed-text missing, got %v", missing)
	}
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected unavailable while a model is missing")
	}
}

func TestOllamaProvider_IsAvailable_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: url, Model: "llama3.2", Timeout: 1})
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected closed server to be unavailable")
	}
}

func TestNewOllamaProvider_RequiresModel(t *testing.T) {
	if _, err := NewOllamaProvider(Config{}); err == nil {
		t.Error("Expected error when no model is configured")
	}

	p, err := NewOllamaProvider(Config{Model: "llama3.2", BaseURL: "http://localhost:11434/"})
	if err != nil {
		t.Fatal(err)
	}
	if p.baseURL != DefaultOllamaURL {
		t.Errorf("Expected trailing slash trimmed, got %s", p.baseURL)
	}
}
