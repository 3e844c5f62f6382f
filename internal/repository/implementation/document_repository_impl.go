package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lexi-drafting-be/internal/mapper"
	"lexi-drafting-be/internal/model"
	"lexi-drafting-be/internal/repository/contract"
	"lexi-drafting-be/internal/repository/specification"
	"lexi-drafting-be/pkg/store"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{db: db, mapper: mapper.NewDocumentMapper()}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *store.Document) error {
	if doc.ID == "" {
		doc.ID = store.NewDocumentID()
	}
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	doc.CreatedAt = m.CreatedAt
	return nil
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*store.Document, error) {
	var m model.Document
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToStore(&m), nil
}

func (r *DocumentRepositoryImpl) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	return r.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).
		Update("embedding", mapper.Vector(embedding)).Error
}
