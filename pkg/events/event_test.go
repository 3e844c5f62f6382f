package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexi-drafting-be/pkg/store"
)

func TestConstructors(t *testing.T) {
	tpl := TemplateCreated(&store.Template{ID: "tpl_1", Title: "NDA", Variables: make([]store.Variable, 3)})
	assert.Equal(t, TypeTemplateCreated, tpl.EventType())
	assert.Equal(t, 3, tpl.Payload()["variable_count"])
	assert.False(t, tpl.Timestamp().IsZero())

	draft := DraftGenerated(&store.Instance{ID: "inst_1", TemplateID: "tpl_1"})
	assert.Equal(t, TypeDraftGenerated, draft.EventType())
	assert.Equal(t, "tpl_1", draft.Payload()["template_id"])

	doc := DocumentUploaded(&store.Document{ID: "doc_1", Filename: "a.md"})
	assert.Equal(t, "a.md", doc.Payload()["filename"])
}
