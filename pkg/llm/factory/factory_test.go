package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexi-drafting-be/pkg/llm/huggingface"
	"lexi-drafting-be/pkg/llm/ollama"
)

func TestNewLLMProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("none disables the oracle", func(t *testing.T) {
		p, err := NewLLMProvider(ctx, Settings{Provider: "none"})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("ollama defaults base url", func(t *testing.T) {
		p, err := NewLLMProvider(ctx, Settings{Provider: "ollama", Model: "llama3"})
		require.NoError(t, err)
		o, ok := p.(*ollama.OllamaProvider)
		require.True(t, ok)
		assert.Equal(t, "http://localhost:11434", o.BaseURL)
	})

	t.Run("huggingface needs key", func(t *testing.T) {
		_, err := NewLLMProvider(ctx, Settings{Provider: "huggingface"})
		assert.Error(t, err)

		p, err := NewLLMProvider(ctx, Settings{Provider: "huggingface", APIKey: "hf_x"})
		require.NoError(t, err)
		assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)
	})

	t.Run("gemini needs key", func(t *testing.T) {
		_, err := NewLLMProvider(ctx, Settings{Provider: "gemini"})
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewLLMProvider(ctx, Settings{Provider: "gpt-9"})
		assert.ErrorContains(t, err, "unsupported LLM provider")
	})
}
