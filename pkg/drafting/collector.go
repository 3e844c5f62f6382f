package drafting

import (
	"context"
	"strings"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/store"
)

type Collector struct {
	oracle QuestionOracle
	logger logger.ILogger
}

func NewCollector(o QuestionOracle, log logger.ILogger) *Collector {
	return &Collector{oracle: o, logger: log}
}

// Prefill asks the oracle for values stated in query and keeps only those that
// name a known variable and, for free-text kinds, literally occur in query.
func (c *Collector) Prefill(ctx context.Context, query string, tpl *store.Template) map[string]string {
	answers := make(map[string]string)
	if strings.TrimSpace(query) == "" || len(tpl.Variables) == 0 {
		return answers
	}

	res := c.oracle.PrefillVariables(ctx, query, tpl.Variables)
	if !res.OK() {
		return answers
	}

	lowerQuery := strings.ToLower(query)
	for key, value := range res.Value {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		v, known := tpl.Variable(key)
		if !known {
			continue
		}
		if (v.Dtype == store.DtypeString || v.Dtype == store.DtypeEnum) && !strings.Contains(lowerQuery, strings.ToLower(value)) {
			c.logger.Debug("COLLECTOR", "Dropped unstated pre-fill", map[string]interface{}{"key": key})
			continue
		}
		answers[key] = value
	}
	return answers
}

// Remaining lists variables without an answer, in template order.
func Remaining(vars []store.Variable, answers map[string]string) []store.Variable {
	out := make([]store.Variable, 0, len(vars))
	for _, v := range vars {
		if _, ok := answers[v.Key]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// Questions returns one question per variable, in the order given. Entries the
// oracle skipped or failed to produce get "Please provide: <label>".
func (c *Collector) Questions(ctx context.Context, tpl *store.Template, vars []store.Variable) []store.Question {
	byKey := make(map[string]oracle.QuestionItem)
	if len(vars) > 0 {
		res := c.oracle.GenerateQuestions(ctx, vars, tpl.Title)
		if res.OK() {
			for _, q := range res.Value {
				if _, dup := byKey[q.VariableKey]; !dup {
					byKey[q.VariableKey] = q
				}
			}
		}
	}

	out := make([]store.Question, len(vars))
	for i, v := range vars {
		if q, ok := byKey[v.Key]; ok {
			out[i] = store.Question{Key: v.Key, Question: q.Question, Hint: q.Hint}
			continue
		}
		out[i] = fallbackQuestion(v)
	}
	return out
}

func fallbackQuestion(v store.Variable) store.Question {
	label := v.Label
	if label == "" {
		label = v.Key
	}
	return store.Question{Key: v.Key, Question: "Please provide: " + label, Hint: v.Example}
}
