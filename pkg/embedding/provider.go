package embedding

import (
	"context"
	"math"
)

// Dimensions is the vector width stored in the database.
const Dimensions = 768

// Task hints the provider about how the vector will be used.
type Task string

const (
	TaskDocument Task = "RETRIEVAL_DOCUMENT"
	TaskQuery    Task = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string, task Task) ([]float32, error)
}

// normalizeVector normalizes a vector to unit length.
// Cosine distance in pgvector expects magnitude 1.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
