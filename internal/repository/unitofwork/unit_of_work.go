package unitofwork

import (
	"context"

	"lexi-drafting-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TemplateRepository() contract.TemplateRepository
	InstanceRepository() contract.InstanceRepository
	DocumentRepository() contract.DocumentRepository
}
