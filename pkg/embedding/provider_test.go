package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(v []float32) float64 {
	var m float64
	for _, x := range v {
		m += float64(x) * float64(x)
	}
	return math.Sqrt(m)
}

func TestNormalizeVector(t *testing.T) {
	out := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := []float32{0, 0, 0}
	assert.Equal(t, zero, normalizeVector(zero))
}

func TestOllamaProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "lease agreement", req.Prompt)

		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{1, 2, 2}})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	vec, err := p.Embed(context.Background(), "lease agreement", TaskDocument)
	require.NoError(t, err)
	require.Len(t, vec, 3)
	assert.InDelta(t, 1.0, magnitude(vec), 1e-6)
}

func TestOllamaProvider_EmbedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Embed(context.Background(), "x", TaskQuery)
	assert.ErrorContains(t, err, "model not found")
}
