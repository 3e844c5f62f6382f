package contract

import (
	"context"

	"lexi-drafting-be/internal/repository/specification"
	"lexi-drafting-be/pkg/store"
)

// ScoredTemplate pairs a template with its cosine similarity to a query vector.
type ScoredTemplate struct {
	Template   store.Template
	Similarity float64
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *store.Template) error
	// Update replaces the template row and its variables.
	Update(ctx context.Context, tpl *store.Template) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*store.Template, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]store.Template, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SetEmbedding(ctx context.Context, id string, embedding []float32) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int, excludeID string) ([]ScoredTemplate, error)
}

type InstanceRepository interface {
	Create(ctx context.Context, inst *store.Instance) error
	Update(ctx context.Context, inst *store.Instance) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*store.Instance, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *store.Document) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*store.Document, error)
	SetEmbedding(ctx context.Context, id string, embedding []float32) error
}
