package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"lexi-drafting-be/internal/model"
	"lexi-drafting-be/pkg/store"
)

type InstanceMapper struct{}

func NewInstanceMapper() *InstanceMapper {
	return &InstanceMapper{}
}

func (m *InstanceMapper) ToStore(i *model.Instance) *store.Instance {
	if i == nil {
		return nil
	}
	answers := map[string]string{}
	if len(i.Answers) > 0 {
		_ = json.Unmarshal(i.Answers, &answers)
	}
	return &store.Instance{
		ID:         i.Id,
		TemplateID: i.TemplateId,
		Query:      i.UserQuery,
		Answers:    answers,
		Draft:      i.DraftMd,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

func (m *InstanceMapper) ToModel(i *store.Instance) *model.Instance {
	if i == nil {
		return nil
	}
	answers := i.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	b, _ := json.Marshal(answers)
	return &model.Instance{
		Id:         i.ID,
		TemplateId: i.TemplateID,
		UserQuery:  i.Query,
		Answers:    datatypes.JSON(b),
		DraftMd:    i.Draft,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToStore(d *model.Document) *store.Document {
	if d == nil {
		return nil
	}
	return &store.Document{
		ID:        d.Id,
		Filename:  d.Filename,
		MimeType:  d.MimeType,
		Text:      d.RawText,
		CreatedAt: d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *store.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:        d.ID,
		Filename:  d.Filename,
		MimeType:  d.MimeType,
		RawText:   d.Text,
		CreatedAt: d.CreatedAt,
	}
}
