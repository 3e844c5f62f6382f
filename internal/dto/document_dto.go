package dto

import (
	"time"

	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/store"
)

type DocumentUploadResponse struct {
	DocumentId string `json:"document_id"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type DocumentResponse struct {
	Id         string    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	TextLength int       `json:"text_length"`
	CreatedAt  time.Time `json:"created_at"`
}

type ExtractTemplateRequest struct {
	Save bool `query:"save"`
}

type ExtractTemplateResponse struct {
	Template        store.Template   `json:"template"`
	ExtractionStats extraction.Stats `json:"extraction_stats"`
	Saved           bool             `json:"saved"`
}

// PublishEmbedMessage is the job payload for the embedding consumer.
type PublishEmbedMessage struct {
	Kind string `json:"kind"` // "template" | "document"
	Id   string `json:"id"`
}
