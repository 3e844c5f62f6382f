package service

import (
	"context"
	"errors"

	"lexi-drafting-be/internal/repository/contract"
	"lexi-drafting-be/internal/repository/memory"
	"lexi-drafting-be/internal/repository/specification"
	"lexi-drafting-be/internal/repository/unitofwork"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/store"

	"gorm.io/gorm"
)

// Catalog is everything the services need from persistence. Missing
// records surface as apperror.ErrReferentialNotFound.
type Catalog interface {
	drafting.TemplateStore
	drafting.InstanceStore

	UpdateTemplate(ctx context.Context, tpl *store.Template) error
	DeleteTemplate(ctx context.Context, id string) error
	PageTemplates(ctx context.Context, skip, limit int, query string) ([]store.Template, int64, error)
	SetTemplateEmbedding(ctx context.Context, id string, embedding []float32) error
	SimilarTemplates(ctx context.Context, embedding []float32, limit int, excludeID string) ([]contract.ScoredTemplate, error)

	CreateDocument(ctx context.Context, doc *store.Document) error
	GetDocument(ctx context.Context, id string) (*store.Document, error)
	SetDocumentEmbedding(ctx context.Context, id string, embedding []float32) error
}

var _ Catalog = (*memory.DraftingRepository)(nil)

// DraftingStore implements Catalog over the gorm unit of work.
type DraftingStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDraftingStore(uowFactory unitofwork.RepositoryFactory) *DraftingStore {
	return &DraftingStore{uowFactory: uowFactory}
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(kind, id)
	}
	return err
}

func (s *DraftingStore) ListTemplates(ctx context.Context) ([]store.Template, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TemplateRepository().FindAll(ctx,
		specification.WithVariables{},
		specification.StableOrder{},
	)
}

func (s *DraftingStore) GetTemplate(ctx context.Context, id string) (*store.Template, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tpl, err := uow.TemplateRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.WithVariables{},
	)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, apperror.NotFound("template", id)
	}
	return tpl, nil
}

func (s *DraftingStore) CreateTemplate(ctx context.Context, tpl *store.Template) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TemplateRepository().Create(ctx, tpl)
}

func (s *DraftingStore) UpdateTemplate(ctx context.Context, tpl *store.Template) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return notFound("template", tpl.ID, uow.TemplateRepository().Update(ctx, tpl))
}

func (s *DraftingStore) DeleteTemplate(ctx context.Context, id string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return notFound("template", id, uow.TemplateRepository().Delete(ctx, id))
}

func (s *DraftingStore) PageTemplates(ctx context.Context, skip, limit int, query string) ([]store.Template, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TemplateRepository()

	total, err := repo.Count(ctx, specification.TitleContains{Query: query})
	if err != nil {
		return nil, 0, err
	}
	templates, err := repo.FindAll(ctx,
		specification.TitleContains{Query: query},
		specification.WithVariables{},
		specification.StableOrder{},
		specification.Pagination{Offset: skip, Limit: limit},
	)
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

func (s *DraftingStore) SetTemplateEmbedding(ctx context.Context, id string, embedding []float32) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TemplateRepository().SetEmbedding(ctx, id, embedding)
}

func (s *DraftingStore) SimilarTemplates(ctx context.Context, embedding []float32, limit int, excludeID string) ([]contract.ScoredTemplate, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TemplateRepository().SearchSimilar(ctx, embedding, limit, excludeID)
}

func (s *DraftingStore) CreateInstance(ctx context.Context, inst *store.Instance) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.InstanceRepository().Create(ctx, inst)
}

func (s *DraftingStore) GetInstance(ctx context.Context, id string) (*store.Instance, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	inst, err := uow.InstanceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, apperror.NotFound("instance", id)
	}
	return inst, nil
}

func (s *DraftingStore) UpdateInstance(ctx context.Context, inst *store.Instance) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return notFound("instance", inst.ID, uow.InstanceRepository().Update(ctx, inst))
}

func (s *DraftingStore) CreateDocument(ctx context.Context, doc *store.Document) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().Create(ctx, doc)
}

func (s *DraftingStore) GetDocument(ctx context.Context, id string) (*store.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document", id)
	}
	return doc, nil
}

func (s *DraftingStore) SetDocumentEmbedding(ctx context.Context, id string, embedding []float32) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().SetEmbedding(ctx, id, embedding)
}
