package memory

import (
	"context"
	"math"
	"sort"
	"strings"

	"lexi-drafting-be/internal/repository/contract"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"
)

// PageTemplates lists templates in store order, optionally filtered by a
// case-insensitive title substring, and returns the unpaged total.
func (r *DraftingRepository) PageTemplates(ctx context.Context, skip, limit int, query string) ([]store.Template, int64, error) {
	all, err := r.ListTemplates(ctx)
	if err != nil {
		return nil, 0, err
	}

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filtered := all[:0]
		for _, t := range all {
			if strings.Contains(strings.ToLower(t.Title), q) {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	total := int64(len(all))
	if skip >= len(all) {
		return []store.Template{}, total, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *DraftingRepository) SetTemplateEmbedding(_ context.Context, id string, v []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[id]; !ok {
		return apperror.NotFound("template", id)
	}
	r.vectors[id] = append([]float32(nil), v...)
	return nil
}

// SimilarTemplates ranks embedded templates by cosine similarity to v.
func (r *DraftingRepository) SimilarTemplates(_ context.Context, v []float32, limit int, excludeID string) ([]contract.ScoredTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	out := make([]contract.ScoredTemplate, 0, len(r.vectors))
	for id, vec := range r.vectors {
		if id == excludeID {
			continue
		}
		out = append(out, contract.ScoredTemplate{
			Template:   cloneTemplate(r.templates[id]),
			Similarity: cosine(v, vec),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Template.ID < out[j].Template.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func (r *DraftingRepository) CreateDocument(_ context.Context, doc *store.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc.ID == "" {
		doc.ID = store.NewDocumentID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = r.now()
	}
	r.documents[doc.ID] = *doc
	return nil
}

func (r *DraftingRepository) GetDocument(_ context.Context, id string) (*store.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[id]
	if !ok {
		return nil, apperror.NotFound("document", id)
	}
	return &doc, nil
}

// SetDocumentEmbedding only checks the document exists; the in-memory store
// has no document search.
func (r *DraftingRepository) SetDocumentEmbedding(_ context.Context, id string, _ []float32) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.documents[id]; !ok {
		return apperror.NotFound("document", id)
	}
	return nil
}
