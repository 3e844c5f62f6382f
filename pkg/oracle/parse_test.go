package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		open byte
		want string
	}{
		{"plain object", `{"a":1}`, '{', `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", '{', `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", '[', `[1,2]`},
		{"prose around", "Sure! Here it is: {\"a\":{\"b\":2}} Hope that helps.", '{', `{"a":{"b":2}}`},
		{"array in prose", "Questions:\n[{\"q\":1}]\n", '[', `[{"q":1}]`},
		{"no json", "I cannot help", '{', "I cannot help"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw, tt.open))
		})
	}
}

func TestFlexTypes(t *testing.T) {
	type row struct {
		S flexString `json:"s"`
		B flexBool   `json:"b"`
	}

	got, err := decodeJSON[[]row](`[{"s":"x","b":true},{"s":42,"b":"true"},{"s":null,"b":null},{"s":false}]`, '[')
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, flexString("x"), got[0].S)
	assert.True(t, bool(got[0].B))
	assert.Equal(t, flexString("42"), got[1].S)
	assert.True(t, bool(got[1].B))
	assert.Equal(t, flexString(""), got[2].S)
	assert.False(t, bool(got[2].B))
	assert.Equal(t, flexString("false"), got[3].S)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := decodeJSON[map[string]string]("{not json", '{')
	assert.Error(t, err)

	_, err = decodeJSON[map[string]string]("", '{')
	assert.Error(t, err)
}
