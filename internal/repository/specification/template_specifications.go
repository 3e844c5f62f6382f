package specification

import (
	"gorm.io/gorm"
)

// WithVariables preloads variables in template order.
type WithVariables struct{}

func (s WithVariables) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Variables", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// StableOrder lists oldest first with id as tiebreaker.
type StableOrder struct{}

func (s StableOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

type ByDocType struct {
	DocType string
}

func (s ByDocType) Apply(db *gorm.DB) *gorm.DB {
	if s.DocType == "" {
		return db
	}
	return db.Where("doc_type = ?", s.DocType)
}

// TitleContains is a case-insensitive title search.
type TitleContains struct {
	Query string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	return db.Where("title ILIKE ?", "%"+s.Query+"%")
}

// MissingEmbedding selects rows the embed job has not reached yet.
type MissingEmbedding struct{}

func (s MissingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NULL")
}
