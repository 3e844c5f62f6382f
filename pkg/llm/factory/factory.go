package factory

import (
	"context"
	"fmt"

	"lexi-drafting-be/pkg/llm"
	"lexi-drafting-be/pkg/llm/gemini"
	"lexi-drafting-be/pkg/llm/huggingface"
	"lexi-drafting-be/pkg/llm/ollama"
)

// Settings selects and configures an LLM backend.
type Settings struct {
	Provider string // "gemini" | "ollama" | "huggingface" | "none"
	Model    string
	BaseURL  string
	APIKey   string
}

// NewLLMProvider returns nil, nil when the provider is "none" or empty.
func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "", "none":
		return nil, nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, s.APIKey, s.Model)
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "huggingface":
		if s.APIKey == "" {
			return nil, fmt.Errorf("huggingface api key is required")
		}
		return huggingface.NewHuggingFaceProvider(s.APIKey, s.BaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
