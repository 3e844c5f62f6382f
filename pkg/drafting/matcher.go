package drafting

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/store"
	"lexi-drafting-be/pkg/websearch"
)

const (
	DefaultConfidenceThreshold = 0.6
	maxWebResults              = 3
)

// Tier says which resolution step produced a MatchResult.
type Tier string

const (
	TierKeyword     Tier = "keyword"
	TierOracle      Tier = "oracle"
	TierEnumeration Tier = "enumeration"
	TierWeb         Tier = "web"
	TierNoMatch     Tier = "no_match"
	TierNoTemplates Tier = "no_templates"
)

type Alternative struct {
	Template      *store.Template
	Confidence    float64
	Justification string
}

type MatchResult struct {
	Tier Tier

	// TierKeyword, TierOracle
	Template      *store.Template
	Confidence    float64
	Justification string
	Alternatives  []Alternative

	// TierEnumeration
	Templates []store.Template

	// TierWeb
	WebResults []websearch.Result

	// TierNoMatch
	WebConfigured bool
}

// Candidates returns the template ids offered to the user, in display order.
func (r *MatchResult) Candidates() []string {
	switch r.Tier {
	case TierKeyword, TierOracle:
		ids := []string{r.Template.ID}
		for _, a := range r.Alternatives {
			ids = append(ids, a.Template.ID)
		}
		return ids
	case TierEnumeration:
		ids := make([]string, len(r.Templates))
		for i, t := range r.Templates {
			ids[i] = t.ID
		}
		return ids
	default:
		return nil
	}
}

type keywordFamily struct {
	triggers   []string
	titleWords []string
}

var keywordFamilies = []keywordFamily{
	{triggers: []string{"lease", "rent", "rental"}, titleWords: []string{"lease"}},
	{triggers: []string{"employment", "job", "offer"}, titleWords: []string{"employment", "offer"}},
}

type Matcher struct {
	templates TemplateStore
	ranker    TemplateRanker
	web       websearch.Provider
	threshold float64
	logger    logger.ILogger
}

// NewMatcher builds a matcher. web may be nil when no search backend is configured.
func NewMatcher(templates TemplateStore, ranker TemplateRanker, web websearch.Provider, threshold float64, log logger.ILogger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Matcher{
		templates: templates,
		ranker:    ranker,
		web:       web,
		threshold: threshold,
		logger:    log,
	}
}

// Match resolves query through keyword, oracle and web tiers. Only a failure
// to list templates is returned as an error; oracle trouble degrades.
func (m *Matcher) Match(ctx context.Context, query string) (*MatchResult, error) {
	templates, err := m.templates.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	if len(templates) == 0 {
		if m.web != nil {
			return m.searchWeb(ctx, query), nil
		}
		return &MatchResult{Tier: TierNoTemplates}, nil
	}

	if tpl := keywordMatch(query, templates); tpl != nil {
		return &MatchResult{Tier: TierKeyword, Template: tpl, Confidence: 1}, nil
	}

	res := m.ranker.MatchTemplate(ctx, query, templates)
	if !res.OK() {
		return enumerate(templates), nil
	}

	if res.Value.BestMatch == nil {
		m.logger.Info("MATCHER", "Oracle reported no local match", map[string]interface{}{"query": query})
		if m.web != nil {
			return m.searchWeb(ctx, query), nil
		}
		return &MatchResult{Tier: TierNoMatch}, nil
	}

	best := res.Value.BestMatch
	tpl := findTemplate(templates, best.TemplateID)
	if tpl == nil || best.Confidence < m.threshold {
		m.logger.Info("MATCHER", "Oracle match rejected", map[string]interface{}{
			"template_id": best.TemplateID,
			"confidence":  best.Confidence,
			"known":       tpl != nil,
		})
		return enumerate(templates), nil
	}

	out := &MatchResult{
		Tier:          TierOracle,
		Template:      tpl,
		Confidence:    best.Confidence,
		Justification: best.Justification,
	}
	seen := map[string]struct{}{tpl.ID: {}}
	for _, alt := range res.Value.Alternatives {
		at := findTemplate(templates, alt.TemplateID)
		if at == nil {
			continue
		}
		if _, dup := seen[at.ID]; dup {
			continue
		}
		seen[at.ID] = struct{}{}
		out.Alternatives = append(out.Alternatives, Alternative{Template: at, Confidence: alt.Confidence, Justification: alt.Justification})
	}
	return out, nil
}

func (m *Matcher) searchWeb(ctx context.Context, query string) *MatchResult {
	results, err := m.web.Search(ctx, query)
	if err != nil {
		m.logger.Warn("MATCHER", "Web search failed", map[string]interface{}{"error": err})
		results = nil
	}
	if len(results) == 0 {
		return &MatchResult{Tier: TierNoMatch, WebConfigured: true}
	}
	if len(results) > maxWebResults {
		results = results[:maxWebResults]
	}
	return &MatchResult{Tier: TierWeb, WebResults: results}
}

func enumerate(templates []store.Template) *MatchResult {
	return &MatchResult{Tier: TierEnumeration, Templates: templates}
}

// keywordMatch returns the first template, in store order, whose title carries a
// family word while the query carries one of that family's triggers.
func keywordMatch(query string, templates []store.Template) *store.Template {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}

	for i := range templates {
		title := strings.ToLower(templates[i].Title)
		for _, fam := range keywordFamilies {
			if containsAny(title, fam.titleWords) && hasAnyWord(words, fam.triggers) {
				return &templates[i]
			}
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyWord(words map[string]struct{}, candidates []string) bool {
	for _, c := range candidates {
		if _, ok := words[c]; ok {
			return true
		}
	}
	return false
}

func findTemplate(templates []store.Template, id string) *store.Template {
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i]
		}
	}
	return nil
}

var _ TemplateRanker = (*oracle.Oracle)(nil)
