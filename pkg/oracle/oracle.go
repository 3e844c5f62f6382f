package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/llm"
	"lexi-drafting-be/pkg/store"
)

const maxAlternatives = 2

// Config tunes oracle calls.
type Config struct {
	Timeout     time.Duration
	RPS         float64
	Burst       int
	Temperature float64
	MaxTokens   int
}

// Oracle wraps an LLM provider with prompts, parsing, a per-call timeout
// and a shared rate limit. A nil provider makes every call unavailable.
type Oracle struct {
	provider   llm.LLMProvider
	limiter    *rate.Limiter
	cfg        Config
	logger     logger.ILogger
	transcript logger.ILogger
}

func NewOracle(provider llm.LLMProvider, cfg Config, log logger.ILogger, transcript logger.ILogger) *Oracle {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8192
	}
	if transcript == nil {
		transcript = logger.NewNopLogger()
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Oracle{
		provider:   provider,
		limiter:    limiter,
		cfg:        cfg,
		logger:     log,
		transcript: transcript,
	}
}

// Configured reports whether a provider is wired in.
func (o *Oracle) Configured() bool {
	return o != nil && o.provider != nil
}

func (o *Oracle) complete(ctx context.Context, op, system, user string, temperature float64, maxTokens int) (string, error) {
	if !o.Configured() {
		return "", apperror.ErrOracleUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limit: %v", apperror.ErrOracleUnavailable, err)
		}
	}

	started := time.Now()
	out, err := o.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}, llm.WithTemperature(temperature), llm.WithMaxTokens(maxTokens), llm.WithJSON())

	o.transcript.Debug("ORACLE", op, map[string]interface{}{
		"prompt":      user,
		"response":    out,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperror.ErrOracleUnavailable, op, err)
	}
	return out, nil
}

func (o *Oracle) warn(op string, err error) {
	if o.logger != nil {
		o.logger.Warn("ORACLE", op+" degraded", map[string]interface{}{"error": err})
	}
}

// ExtractVariables discovers variables in one chunk. known carries variables
// found in earlier chunks so the model can reuse their keys.
func (o *Oracle) ExtractVariables(ctx context.Context, text string, known []store.Variable) Result[Extraction] {
	raw, err := o.complete(ctx, "extract_variables", extractionSystemPrompt, extractionPrompt(text, known), o.cfg.Temperature, o.cfg.MaxTokens)
	if err != nil {
		o.warn("extract_variables", err)
		return unavailable[Extraction](err)
	}

	wire, err := decodeJSON[wireExtraction](raw, '{')
	if err != nil {
		o.warn("extract_variables", err)
		return malformed[Extraction](err)
	}

	out := Extraction{Variables: make([]store.Variable, 0, len(wire.Variables))}
	for _, wv := range wire.Variables {
		v := store.Variable{
			Key:         strings.TrimSpace(string(wv.Key)),
			Label:       strings.TrimSpace(string(wv.Label)),
			Description: string(wv.Description),
			Example:     string(wv.Example),
			Required:    bool(wv.Required),
			Dtype:       store.ParseDtype(string(wv.Dtype)),
			Regex:       string(wv.Regex),
		}
		for _, e := range wv.EnumValues {
			if e != "" {
				v.EnumValues = append(v.EnumValues, string(e))
			}
		}
		if v.Key == "" {
			continue
		}
		out.Variables = append(out.Variables, v)
	}
	for _, t := range wire.Tags {
		if t != "" {
			out.Tags = append(out.Tags, string(t))
		}
	}
	return ok(out)
}

// MatchTemplate ranks templates against query.
func (o *Oracle) MatchTemplate(ctx context.Context, query string, templates []store.Template) Result[Match] {
	raw, err := o.complete(ctx, "match_template", matchSystemPrompt, matchPrompt(query, templates), 0.2, 2048)
	if err != nil {
		o.warn("match_template", err)
		return unavailable[Match](err)
	}

	wire, err := decodeJSON[wireMatch](raw, '{')
	if err != nil {
		o.warn("match_template", err)
		return malformed[Match](err)
	}
	if len(wire.BestMatch) == 0 {
		err := errors.New("best_match missing")
		o.warn("match_template", err)
		return malformed[Match](err)
	}

	var out Match
	if string(wire.BestMatch) != "null" {
		var best Candidate
		if err := json.Unmarshal(wire.BestMatch, &best); err != nil || best.TemplateID == "" {
			if err == nil {
				err = errors.New("best_match without template_id")
			}
			o.warn("match_template", err)
			return malformed[Match](err)
		}
		out.BestMatch = &best
	}
	for _, alt := range wire.Alternatives {
		if alt.TemplateID == "" {
			continue
		}
		out.Alternatives = append(out.Alternatives, alt)
		if len(out.Alternatives) == maxAlternatives {
			break
		}
	}
	return ok(out)
}

// GenerateQuestions writes one question per variable in a single call.
// Entries may be missing; callers fill gaps themselves.
func (o *Oracle) GenerateQuestions(ctx context.Context, vars []store.Variable, templateContext string) Result[[]QuestionItem] {
	raw, err := o.complete(ctx, "generate_questions", questionsSystemPrompt, questionsPrompt(vars, templateContext), 0.4, 4096)
	if err != nil {
		o.warn("generate_questions", err)
		return unavailable[[]QuestionItem](err)
	}

	wire, err := decodeJSON[[]wireQuestion](raw, '[')
	if err != nil {
		o.warn("generate_questions", err)
		return malformed[[]QuestionItem](err)
	}

	out := make([]QuestionItem, 0, len(wire))
	for _, q := range wire {
		if q.VariableKey == "" || strings.TrimSpace(string(q.Question)) == "" {
			continue
		}
		out = append(out, QuestionItem{
			VariableKey: string(q.VariableKey),
			Question:    strings.TrimSpace(string(q.Question)),
			Hint:        string(q.Hint),
		})
	}
	return ok(out)
}

// PrefillVariables returns values the model claims the query states.
// The result is unfiltered; callers guard against fabrication.
func (o *Oracle) PrefillVariables(ctx context.Context, query string, vars []store.Variable) Result[map[string]string] {
	raw, err := o.complete(ctx, "prefill_variables", prefillSystemPrompt, prefillPrompt(query, vars), 0.1, 2048)
	if err != nil {
		o.warn("prefill_variables", err)
		return unavailable[map[string]string](err)
	}

	wire, err := decodeJSON[map[string]flexString](raw, '{')
	if err != nil {
		o.warn("prefill_variables", err)
		return malformed[map[string]string](err)
	}

	out := make(map[string]string, len(wire))
	for k, v := range wire {
		out[k] = string(v)
	}
	return ok(out)
}
