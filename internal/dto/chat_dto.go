package dto

import (
	"time"

	"lexi-drafting-be/pkg/store"
)

type ChatMessageRequest struct {
	Message        string `json:"message" validate:"max=8000"`
	ConversationId string `json:"conversation_id" validate:"omitempty,max=64"`
}

type ConversationResponse struct {
	ConversationId string            `json:"conversation_id"`
	State          store.State       `json:"state"`
	TemplateId     string            `json:"template_id,omitempty"`
	InstanceId     string            `json:"instance_id,omitempty"`
	Query          string            `json:"query,omitempty"`
	Answers        map[string]string `json:"answers"`
	QuestionIndex  int               `json:"question_index"`
	TotalQuestions int               `json:"total_questions"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type InstanceResponse struct {
	store.Instance
	DraftHtml *string `json:"draft_html,omitempty"`
}

type ActivityEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
