package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Template struct {
	Id              string             `gorm:"type:varchar(32);primaryKey"`
	Title           string             `gorm:"type:varchar(255);not null"`
	FileDescription string             `gorm:"type:text"`
	DocType         string             `gorm:"type:varchar(100);index"`
	Jurisdiction    string             `gorm:"type:varchar(100)"`
	SimilarityTags  datatypes.JSON     `gorm:"type:jsonb"`
	BodyMd          string             `gorm:"type:text;not null"`
	Embedding       *pgvector.Vector   `gorm:"type:vector(768)"` // nil until the embed job runs
	Variables       []TemplateVariable `gorm:"foreignKey:TemplateId;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt     `gorm:"index"`
}

func (Template) TableName() string {
	return "templates"
}

type TemplateVariable struct {
	Id          uint           `gorm:"primaryKey"`
	TemplateId  string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_template_variable_key"`
	Position    int            `gorm:"not null;default:0"`
	Key         string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_template_variable_key"`
	Label       string         `gorm:"type:varchar(255)"`
	Description string         `gorm:"type:text"`
	Example     string         `gorm:"type:text"`
	Required    bool           `gorm:"default:true"`
	Dtype       string         `gorm:"type:varchar(20);default:'string'"`
	Regex       string         `gorm:"type:text"`
	EnumValues  datatypes.JSON `gorm:"type:jsonb"`
}

func (TemplateVariable) TableName() string {
	return "template_variables"
}
