package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "drafting.template.created", Subject("template.created"))
}

func TestDecode(t *testing.T) {
	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(envelope{Type: "draft.generated", Data: map[string]interface{}{"instance_id": "inst_1"}, OccurredAt: at})
	require.NoError(t, err)

	ev, err := Decode("drafting.draft.generated", raw)
	require.NoError(t, err)
	assert.Equal(t, "draft.generated", ev.EventType())
	assert.Equal(t, "inst_1", ev.Payload()["instance_id"])
	assert.True(t, at.Equal(ev.Timestamp()))
}

func TestDecode_TypeFromSubject(t *testing.T) {
	ev, err := Decode("drafting.template.created", []byte(`{"data":{"template_id":"tpl_1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "template.created", ev.EventType())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode("drafting.x", []byte("not json"))
	assert.Error(t, err)
}
