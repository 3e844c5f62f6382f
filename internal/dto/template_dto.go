package dto

import (
	"time"

	"lexi-drafting-be/pkg/store"
	"lexi-drafting-be/pkg/websearch"
)

type VariableRequest struct {
	Key         string   `json:"key" validate:"required,max=100"`
	Label       string   `json:"label" validate:"max=255"`
	Description string   `json:"description"`
	Example     string   `json:"example"`
	Required    *bool    `json:"required"`
	Dtype       string   `json:"dtype" validate:"omitempty,oneof=string number date enum"`
	Regex       string   `json:"regex"`
	EnumValues  []string `json:"enum_values"`
}

type CreateTemplateRequest struct {
	Title          string            `json:"title" validate:"required,max=255"`
	Description    string            `json:"file_description"`
	DocType        string            `json:"doc_type" validate:"max=100"`
	Jurisdiction   string            `json:"jurisdiction" validate:"max=100"`
	SimilarityTags []string          `json:"similarity_tags"`
	BodyMd         string            `json:"body_md" validate:"required"`
	Variables      []VariableRequest `json:"variables" validate:"dive"`
}

type UpdateTemplateRequest struct {
	Id             string             `json:"-"`
	Title          *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string            `json:"file_description"`
	DocType        *string            `json:"doc_type" validate:"omitempty,max=100"`
	Jurisdiction   *string            `json:"jurisdiction" validate:"omitempty,max=100"`
	SimilarityTags []string           `json:"similarity_tags"`
	BodyMd         *string            `json:"body_md" validate:"omitempty,min=1"`
	Variables      *[]VariableRequest `json:"variables" validate:"omitempty,dive"`
}

type TemplateListResponse struct {
	Templates []store.Template `json:"templates"`
	Total     int64            `json:"total"`
	Skip      int              `json:"skip"`
	Limit     int              `json:"limit"`
}

type CandidateResponse struct {
	TemplateId    string  `json:"template_id"`
	Title         string  `json:"title"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification,omitempty"`
}

type TemplateMatchResponse struct {
	Query        string              `json:"query"`
	Tier         string              `json:"tier"`
	BestMatch    *CandidateResponse  `json:"best_match"`
	Alternatives []CandidateResponse `json:"alternatives"`
	WebResults   []websearch.Result  `json:"web_results,omitempty"`
}

type SimilarTemplateResponse struct {
	TemplateId string    `json:"template_id"`
	Title      string    `json:"title"`
	DocType    string    `json:"doc_type"`
	Similarity float64   `json:"similarity"`
	CreatedAt  time.Time `json:"created_at"`
}
