package implementation

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"lexi-drafting-be/internal/mapper"
	"lexi-drafting-be/internal/model"
	"lexi-drafting-be/internal/repository/contract"
	"lexi-drafting-be/internal/repository/specification"
	"lexi-drafting-be/pkg/store"
)

type TemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TemplateMapper
}

func NewTemplateRepository(db *gorm.DB) contract.TemplateRepository {
	return &TemplateRepositoryImpl{
		db:     db,
		mapper: mapper.NewTemplateMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, tpl *store.Template) error {
	if tpl.ID == "" {
		tpl.ID = store.NewTemplateID()
	}
	tpl.Tags = store.NormalizeTags(tpl.Tags)

	m := r.mapper.ToModel(tpl)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tpl.CreatedAt = m.CreatedAt
	return nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, tpl *store.Template) error {
	m := r.mapper.ToModel(tpl)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Template{}).Where("id = ?", tpl.ID).Select(
			"title", "file_description", "doc_type", "jurisdiction", "similarity_tags", "body_md",
		).Updates(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("template_id = ?", tpl.ID).Delete(&model.TemplateVariable{}).Error; err != nil {
			return err
		}
		if len(m.Variables) > 0 {
			if err := tx.Create(&m.Variables).Error; err != nil {
				return err
			}
		}
		// Content changed; the embed job recomputes it.
		return tx.Model(&model.Template{}).Where("id = ?", tpl.ID).Update("embedding", nil).Error
	})
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Template{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TemplateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*store.Template, error) {
	var m model.Template
	query := applySpecifications(r.db.WithContext(ctx), append(specs, specification.WithVariables{})...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToStore(&m), nil
}

func (r *TemplateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]store.Template, error) {
	var models []*model.Template
	query := applySpecifications(r.db.WithContext(ctx), append(specs, specification.WithVariables{})...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToStores(models), nil
}

func (r *TemplateRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Template{}).Count(&count).Error
	return count, err
}

func (r *TemplateRepositoryImpl) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	return r.db.WithContext(ctx).Model(&model.Template{}).Where("id = ?", id).
		Update("embedding", mapper.Vector(embedding)).Error
}

// SearchSimilar ranks embedded templates by cosine similarity.
func (r *TemplateRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, excludeID string) ([]contract.ScoredTemplate, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Template
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)
	query := r.db.WithContext(ctx).
		Table("templates").
		Select("templates.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("deleted_at IS NULL").
		Where("embedding IS NOT NULL")
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Order("similarity DESC").Limit(limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]contract.ScoredTemplate, len(results))
	for i, res := range results {
		out[i] = contract.ScoredTemplate{
			Template:   *r.mapper.ToStore(&res.Template),
			Similarity: res.Similarity,
		}
	}
	return out, nil
}
