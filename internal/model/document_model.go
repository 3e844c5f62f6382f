package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type Document struct {
	Id        string           `gorm:"type:varchar(32);primaryKey"`
	Filename  string           `gorm:"type:varchar(255);not null"`
	MimeType  string           `gorm:"type:varchar(100)"`
	RawText   string           `gorm:"type:text"`
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}

// All lists every table the migrator manages, parents first.
func All() []interface{} {
	return []interface{}{
		&Template{},
		&TemplateVariable{},
		&Instance{},
		&Document{},
	}
}

// Indexes is run after AutoMigrate.
var Indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_templates_embedding ON templates USING hnsw (embedding vector_cosine_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_created_at ON templates (created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_template_id ON instances (template_id)`,
}
