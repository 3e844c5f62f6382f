package events

import (
	"time"

	"lexi-drafting-be/pkg/store"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the subject suffix, e.g. "template.created".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

const (
	TypeTemplateCreated  = "template.created"
	TypeDraftGenerated   = "draft.generated"
	TypeDocumentUploaded = "document.uploaded"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func TemplateCreated(tpl *store.Template) BaseEvent {
	return BaseEvent{
		Type: TypeTemplateCreated,
		Data: map[string]interface{}{
			"template_id":    tpl.ID,
			"title":          tpl.Title,
			"variable_count": len(tpl.Variables),
		},
		OccurredAt: time.Now().UTC(),
	}
}

func DraftGenerated(inst *store.Instance) BaseEvent {
	return BaseEvent{
		Type: TypeDraftGenerated,
		Data: map[string]interface{}{
			"instance_id": inst.ID,
			"template_id": inst.TemplateID,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func DocumentUploaded(doc *store.Document) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentUploaded,
		Data: map[string]interface{}{
			"document_id": doc.ID,
			"filename":    doc.Filename,
			"mime_type":   doc.MimeType,
		},
		OccurredAt: time.Now().UTC(),
	}
}
