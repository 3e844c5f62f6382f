package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"lexi-drafting-be/internal/model"
	"lexi-drafting-be/pkg/store"
)

type TemplateMapper struct{}

func NewTemplateMapper() *TemplateMapper {
	return &TemplateMapper{}
}

func (m *TemplateMapper) ToStore(t *model.Template) *store.Template {
	if t == nil {
		return nil
	}

	vars := make([]store.Variable, len(t.Variables))
	for i, v := range t.Variables {
		vars[i] = store.Variable{
			Key:         v.Key,
			Label:       v.Label,
			Description: v.Description,
			Example:     v.Example,
			Required:    v.Required,
			Dtype:       store.ParseDtype(v.Dtype),
			Regex:       v.Regex,
			EnumValues:  decodeStrings(v.EnumValues),
		}
	}

	return &store.Template{
		ID:           t.Id,
		Title:        t.Title,
		Description:  t.FileDescription,
		DocType:      t.DocType,
		Jurisdiction: t.Jurisdiction,
		Tags:         decodeStrings(t.SimilarityTags),
		Body:         t.BodyMd,
		Variables:    vars,
		CreatedAt:    t.CreatedAt,
	}
}

// ToModel keeps variable order in Position. The embedding is left unset.
func (m *TemplateMapper) ToModel(t *store.Template) *model.Template {
	if t == nil {
		return nil
	}

	vars := make([]model.TemplateVariable, len(t.Variables))
	for i, v := range t.Variables {
		vars[i] = model.TemplateVariable{
			TemplateId:  t.ID,
			Position:    i,
			Key:         v.Key,
			Label:       v.Label,
			Description: v.Description,
			Example:     v.Example,
			Required:    v.Required,
			Dtype:       string(store.ParseDtype(string(v.Dtype))),
			Regex:       v.Regex,
			EnumValues:  encodeStrings(v.EnumValues),
		}
	}

	return &model.Template{
		Id:              t.ID,
		Title:           t.Title,
		FileDescription: t.Description,
		DocType:         t.DocType,
		Jurisdiction:    t.Jurisdiction,
		SimilarityTags:  encodeStrings(store.NormalizeTags(t.Tags)),
		BodyMd:          t.Body,
		Variables:       vars,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *TemplateMapper) ToStores(models []*model.Template) []store.Template {
	out := make([]store.Template, len(models))
	for i, t := range models {
		out[i] = *m.ToStore(t)
	}
	return out
}

func Vector(v []float32) *pgvector.Vector {
	if len(v) == 0 {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}

func encodeStrings(s []string) datatypes.JSON {
	if s == nil {
		s = []string{}
	}
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}

func decodeStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}
