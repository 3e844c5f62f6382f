package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiEmbeddingModel = "gemini-embedding-001"

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{client: client, model: defaultGeminiEmbeddingModel}, nil
}

func (p *GeminiProvider) Embed(ctx context.Context, text string, task Task) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := p.client.Models.EmbedContent(ctx, p.model, contents, &genai.EmbedContentConfig{
		TaskType:             string(task),
		OutputDimensionality: genai.Ptr[int32](Dimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	// Truncated outputs are not unit length.
	return normalizeVector(result.Embeddings[0].Values), nil
}
