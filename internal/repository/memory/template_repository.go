package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"
)

// DraftingRepository is an in-process template and instance store used
// when no database is configured, and by tests.
type DraftingRepository struct {
	mu        sync.RWMutex
	templates map[string]store.Template
	instances map[string]store.Instance
	documents map[string]store.Document
	vectors   map[string][]float32 // template id -> embedding
	now       func() time.Time
}

func NewDraftingRepository() *DraftingRepository {
	return &DraftingRepository{
		templates: make(map[string]store.Template),
		instances: make(map[string]store.Instance),
		documents: make(map[string]store.Document),
		vectors:   make(map[string][]float32),
		now:       time.Now,
	}
}

func (r *DraftingRepository) ListTemplates(_ context.Context) ([]store.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]store.Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, cloneTemplate(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *DraftingRepository) GetTemplate(_ context.Context, id string) (*store.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok {
		return nil, apperror.NotFound("template", id)
	}
	c := cloneTemplate(t)
	return &c, nil
}

// CreateTemplate assigns an id and creation time when missing.
func (r *DraftingRepository) CreateTemplate(_ context.Context, tpl *store.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl.ID == "" {
		tpl.ID = store.NewTemplateID()
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = r.now()
	}
	tpl.Tags = store.NormalizeTags(tpl.Tags)
	r.templates[tpl.ID] = cloneTemplate(*tpl)
	return nil
}

func (r *DraftingRepository) UpdateTemplate(_ context.Context, tpl *store.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.templates[tpl.ID]
	if !ok {
		return apperror.NotFound("template", tpl.ID)
	}
	tpl.CreatedAt = existing.CreatedAt
	tpl.Tags = store.NormalizeTags(tpl.Tags)
	r.templates[tpl.ID] = cloneTemplate(*tpl)
	delete(r.vectors, tpl.ID)
	return nil
}

func (r *DraftingRepository) DeleteTemplate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[id]; !ok {
		return apperror.NotFound("template", id)
	}
	delete(r.templates, id)
	delete(r.vectors, id)
	return nil
}

func (r *DraftingRepository) CreateInstance(_ context.Context, inst *store.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst.ID == "" {
		inst.ID = store.NewInstanceID()
	}
	now := r.now()
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = now
	}
	inst.UpdatedAt = now
	r.instances[inst.ID] = cloneInstance(*inst)
	return nil
}

func (r *DraftingRepository) GetInstance(_ context.Context, id string) (*store.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instances[id]
	if !ok {
		return nil, apperror.NotFound("instance", id)
	}
	c := cloneInstance(inst)
	return &c, nil
}

func (r *DraftingRepository) UpdateInstance(_ context.Context, inst *store.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[inst.ID]; !ok {
		return apperror.NotFound("instance", inst.ID)
	}
	r.instances[inst.ID] = cloneInstance(*inst)
	return nil
}

func cloneTemplate(t store.Template) store.Template {
	t.Tags = append([]string(nil), t.Tags...)
	vars := make([]store.Variable, len(t.Variables))
	for i, v := range t.Variables {
		v.EnumValues = append([]string(nil), v.EnumValues...)
		vars[i] = v
	}
	t.Variables = vars
	return t
}

func cloneInstance(i store.Instance) store.Instance {
	answers := make(map[string]string, len(i.Answers))
	for k, v := range i.Answers {
		answers[k] = v
	}
	i.Answers = answers
	if i.Draft != nil {
		d := *i.Draft
		i.Draft = &d
	}
	return i
}
