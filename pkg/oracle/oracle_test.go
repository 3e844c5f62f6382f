package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/llm"
	"lexi-drafting-be/pkg/store"
)

type fakeProvider struct {
	reply   string
	err     error
	delay   time.Duration
	calls   int
	history []llm.Message
	opts    llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	f.history = history
	f.opts = llm.Apply(llm.Options{}, options...)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func newTestOracle(p llm.LLMProvider) *Oracle {
	return NewOracle(p, Config{Timeout: time.Second, Temperature: 0.3}, logger.NewNopLogger(), nil)
}

func TestOracle_Unconfigured(t *testing.T) {
	o := newTestOracle(nil)
	assert.False(t, o.Configured())

	res := o.MatchTemplate(context.Background(), "lease", nil)
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.ErrorIs(t, res.Err, apperror.ErrOracleUnavailable)
}

func TestOracle_ExtractVariables(t *testing.T) {
	p := &fakeProvider{reply: "```json\n" + `{
		"variables": [
			{"key":"tenant_name","label":"Tenant Name","example":"John Smith","required":true,"dtype":"string","regex":null,"enum_values":null},
			{"key":"monthly_rent","label":"Monthly Rent","example":1500,"required":"true","dtype":"currency"},
			{"key":"","label":"nameless"}
		],
		"similarity_tags": ["lease","residential"]
	}` + "\n```"}
	o := newTestOracle(p)

	known := []store.Variable{{Key: "landlord_name", Label: "Landlord Name"}}
	res := o.ExtractVariables(context.Background(), "This lease is between ...", known)
	require.True(t, res.OK())

	require.Len(t, res.Value.Variables, 2)
	assert.Equal(t, "tenant_name", res.Value.Variables[0].Key)
	assert.Equal(t, store.DtypeString, res.Value.Variables[0].Dtype)
	assert.Equal(t, "1500", res.Value.Variables[1].Example)
	assert.True(t, res.Value.Variables[1].Required)
	assert.Equal(t, store.DtypeString, res.Value.Variables[1].Dtype)
	assert.Equal(t, []string{"lease", "residential"}, res.Value.Tags)

	require.Len(t, p.history, 2)
	assert.Equal(t, llm.RoleSystem, p.history[0].Role)
	assert.Contains(t, p.history[1].Content, "landlord_name")
	assert.True(t, p.opts.JSON)
}

func TestOracle_ExtractVariablesMalformed(t *testing.T) {
	o := newTestOracle(&fakeProvider{reply: "sorry, no JSON today"})
	res := o.ExtractVariables(context.Background(), "text", nil)
	assert.Equal(t, StatusMalformed, res.Status)
	assert.ErrorIs(t, res.Err, apperror.ErrOracleMalformedResponse)
}

func TestOracle_MatchTemplate(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		status   Status
		bestID   string
		nullBest bool
		alts     int
	}{
		{
			name:   "best with alternatives capped at two",
			reply:  `{"best_match":{"template_id":"tpl_a","confidence":0.9,"justification":"same"},"alternatives":[{"template_id":"tpl_b","confidence":0.7},{"template_id":"tpl_c","confidence":0.6},{"template_id":"tpl_d","confidence":0.5}]}`,
			status: StatusOK,
			bestID: "tpl_a",
			alts:   2,
		},
		{
			name:     "explicit null best match",
			reply:    `{"best_match":null,"alternatives":[]}`,
			status:   StatusOK,
			nullBest: true,
		},
		{
			name:   "missing best match key",
			reply:  `{"alternatives":[]}`,
			status: StatusMalformed,
		},
		{
			name:   "best match without id",
			reply:  `{"best_match":{"confidence":0.9}}`,
			status: StatusMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOracle(&fakeProvider{reply: tt.reply})
			res := o.MatchTemplate(context.Background(), "need a lease", []store.Template{{ID: "tpl_a", Title: "Lease"}})
			assert.Equal(t, tt.status, res.Status)
			if tt.status != StatusOK {
				return
			}
			if tt.nullBest {
				assert.Nil(t, res.Value.BestMatch)
				return
			}
			require.NotNil(t, res.Value.BestMatch)
			assert.Equal(t, tt.bestID, res.Value.BestMatch.TemplateID)
			assert.Len(t, res.Value.Alternatives, tt.alts)
		})
	}
}

func TestOracle_ProviderErrorIsUnavailable(t *testing.T) {
	o := newTestOracle(&fakeProvider{err: errors.New("503")})
	res := o.GenerateQuestions(context.Background(), []store.Variable{{Key: "a", Label: "A"}}, "")
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.ErrorIs(t, res.Err, apperror.ErrOracleUnavailable)
}

func TestOracle_TimeoutIsUnavailable(t *testing.T) {
	p := &fakeProvider{reply: "{}", delay: time.Second}
	o := NewOracle(p, Config{Timeout: 20 * time.Millisecond}, logger.NewNopLogger(), nil)

	res := o.PrefillVariables(context.Background(), "q", nil)
	assert.Equal(t, StatusUnavailable, res.Status)
}

func TestOracle_GenerateQuestionsSkipsBlankEntries(t *testing.T) {
	o := newTestOracle(&fakeProvider{reply: `[
		{"variable_key":"tenant_name","question":"What is the tenant's full name?","hint":"As on ID"},
		{"variable_key":"rent","question":"  "}
	]`})
	res := o.GenerateQuestions(context.Background(), nil, "Lease")
	require.True(t, res.OK())
	require.Len(t, res.Value, 1)
	assert.Equal(t, "As on ID", res.Value[0].Hint)
}

func TestOracle_PrefillStringifiesScalars(t *testing.T) {
	o := newTestOracle(&fakeProvider{reply: `{"tenant_name":"John Smith","monthly_rent":1500,"start_date":null}`})
	res := o.PrefillVariables(context.Background(), "q", nil)
	require.True(t, res.OK())
	assert.Equal(t, map[string]string{"tenant_name": "John Smith", "monthly_rent": "1500", "start_date": ""}, res.Value)
}

func TestOracle_RateLimiterHonoursContext(t *testing.T) {
	p := &fakeProvider{reply: "{}"}
	o := NewOracle(p, Config{Timeout: time.Second, RPS: 0.001, Burst: 1}, logger.NewNopLogger(), nil)

	require.True(t, o.PrefillVariables(context.Background(), "q", nil).OK())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := o.PrefillVariables(ctx, "q", nil)
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.Equal(t, 1, p.calls)
}
