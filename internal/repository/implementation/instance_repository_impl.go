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

type InstanceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InstanceMapper
}

func NewInstanceRepository(db *gorm.DB) contract.InstanceRepository {
	return &InstanceRepositoryImpl{db: db, mapper: mapper.NewInstanceMapper()}
}

func (r *InstanceRepositoryImpl) Create(ctx context.Context, inst *store.Instance) error {
	if inst.ID == "" {
		inst.ID = store.NewInstanceID()
	}
	m := r.mapper.ToModel(inst)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	inst.CreatedAt, inst.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *InstanceRepositoryImpl) Update(ctx context.Context, inst *store.Instance) error {
	m := r.mapper.ToModel(inst)
	res := r.db.WithContext(ctx).Model(&model.Instance{}).Where("id = ?", inst.ID).
		Select("answers", "draft_md", "updated_at").Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InstanceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*store.Instance, error) {
	var m model.Instance
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToStore(&m), nil
}
