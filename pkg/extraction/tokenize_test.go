package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lexi-drafting-be/pkg/store"
)

func TestTokenize_BoundedReplacements(t *testing.T) {
	body := strings.Repeat("Acme Corp. ", 5)
	out := Tokenize(body, []store.Variable{{Key: "company", Example: "Acme Corp"}}, 3)

	assert.Equal(t, 3, strings.Count(out, "{{company}}"))
	assert.Equal(t, 2, strings.Count(out, "Acme Corp"))
}

func TestTokenize_NeverInsideExistingToken(t *testing.T) {
	vars := []store.Variable{
		{Key: "tenant_name", Example: "John Smith"},
		{Key: "first_name", Example: "tenant"},
		{Key: "name", Example: "name"},
	}
	out := Tokenize("Tenant John Smith, tenant of record.", vars, 3)

	assert.Equal(t, "Tenant {{tenant_name}}, {{first_name}} of record.", out)
	assert.Equal(t, []string{"tenant_name", "first_name"}, FindPlaceholders(out))
}

func TestTokenize_SkipsEmptyExamples(t *testing.T) {
	body := "Dated the 1st of May."
	out := Tokenize(body, []store.Variable{{Key: "date", Example: "  "}, {Key: "x"}}, 3)
	assert.Equal(t, body, out)
}

func TestTokenize_DefaultLimit(t *testing.T) {
	out := Tokenize("a a a a a", []store.Variable{{Key: "v", Example: "a"}}, 0)
	assert.Equal(t, "{{v}} {{v}} {{v}} a a", out)
}
