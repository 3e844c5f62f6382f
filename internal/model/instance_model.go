package model

import (
	"time"

	"gorm.io/datatypes"
)

type Instance struct {
	Id         string         `gorm:"type:varchar(32);primaryKey"`
	TemplateId string         `gorm:"type:varchar(32);not null;index"`
	UserQuery  string         `gorm:"type:text"`
	Answers    datatypes.JSON `gorm:"type:jsonb"`
	DraftMd    *string        `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Instance) TableName() string {
	return "instances"
}
