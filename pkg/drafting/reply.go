package drafting

import (
	"fmt"
	"strings"

	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/store"
	"lexi-drafting-be/pkg/websearch"
)

type MessageType string

const (
	TypeNoTemplates     MessageType = "no_templates"
	TypeTemplateList    MessageType = "template_list"
	TypeTemplateMatch   MessageType = "template_match"
	TypeTemplateCreated MessageType = "template_created"
	TypeWebResults      MessageType = "web_results"
	TypeNoMatch         MessageType = "no_match"
	TypeQuestion        MessageType = "question"
	TypeDraft           MessageType = "draft"
	TypeVarsStatus      MessageType = "vars_status"
	TypeText            MessageType = "text"
)

// DraftActions are offered after a draft is rendered.
var DraftActions = []string{"download", "edit", "new"}

// Reply is one assistant turn. Data holds one of the *Data types below, or nil.
type Reply struct {
	ConversationID string      `json:"conversation_id"`
	Message        string      `json:"message"`
	Type           MessageType `json:"message_type"`
	Data           any         `json:"data"`
}

type TemplateSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	VariableCount int    `json:"variable_count"`
}

type TemplateListData struct {
	Templates []TemplateSummary `json:"templates"`
}

type CandidateData struct {
	TemplateID    string  `json:"template_id"`
	Title         string  `json:"title"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification,omitempty"`
}

type TemplateMatchData struct {
	Tier          Tier            `json:"tier"`
	TemplateID    string          `json:"template_id"`
	Title         string          `json:"title"`
	VariableCount int             `json:"variable_count"`
	Confidence    float64         `json:"confidence"`
	Justification string          `json:"justification,omitempty"`
	Alternatives  []CandidateData `json:"alternatives"`
}

type TemplateCreatedData struct {
	TemplateID    string           `json:"template_id"`
	Title         string           `json:"title"`
	VariableCount int              `json:"variable_count"`
	SourceURL     string           `json:"source_url,omitempty"`
	Stats         extraction.Stats `json:"extraction_stats"`
}

type WebResultsData struct {
	Results []websearch.Result `json:"results"`
}

type NoMatchData struct {
	HasWebSearch bool `json:"has_web_search"`
}

type QuestionData struct {
	QuestionIndex  int    `json:"question_index"`
	TotalQuestions int    `json:"total_questions"`
	VariableKey    string `json:"variable_key"`
	Prefilled      int    `json:"prefilled"`
}

type DraftData struct {
	InstanceID string   `json:"instance_id"`
	TemplateID string   `json:"template_id"`
	DraftMD    string   `json:"draft_md"`
	Actions    []string `json:"actions"`
}

type VariableStatus struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Value    string `json:"value,omitempty"`
	Required bool   `json:"required"`
}

type VarsStatusData struct {
	TemplateID   string           `json:"template_id"`
	Filled       []VariableStatus `json:"filled"`
	Missing      []VariableStatus `json:"missing"`
	FilledCount  int              `json:"filled_count"`
	MissingCount int              `json:"missing_count"`
	TotalCount   int              `json:"total_count"`
}

func textReply(format string, args ...any) *Reply {
	return &Reply{Type: TypeText, Message: fmt.Sprintf(format, args...)}
}

const (
	msgDraftUsage      = "Usage: /draft <what you need>, e.g. /draft lease agreement for an apartment in Austin"
	msgAskForRequest   = "What would you like to draft? Describe the document, e.g. \"a rental agreement for my flat\"."
	msgSelectionPrompt = "Please confirm by typing 'yes' or select a template by number."
	msgWebPrompt       = "Reply with the number of a search result to create a template from it, or send /draft <request> to search again."
	msgNoSelection     = "No template selected yet."
	msgNoTemplates     = "No templates available yet. Upload a document first to create one."
	msgNoMatch         = "No matching template found.\n\nSuggestions:\n- Upload a similar document\n- Broaden your request\n- Use different keywords"
	msgNoWebMatch      = "No matching template found locally or on the web.\n\nTry uploading a document or using different search terms."
)

func templateListReply(templates []store.Template) *Reply {
	var b strings.Builder
	b.WriteString("**Available Templates:**\n\n")
	data := TemplateListData{Templates: make([]TemplateSummary, len(templates))}
	for i, t := range templates {
		fmt.Fprintf(&b, "%d. **%s** (%d variables)\n", i+1, t.Title, len(t.Variables))
		data.Templates[i] = TemplateSummary{ID: t.ID, Title: t.Title, VariableCount: len(t.Variables)}
	}
	b.WriteString("\nReply with the number to select a template.")
	return &Reply{Type: TypeTemplateList, Message: b.String(), Data: data}
}

func templateMatchReply(res *MatchResult) *Reply {
	tpl := res.Template
	data := TemplateMatchData{
		Tier:          res.Tier,
		TemplateID:    tpl.ID,
		Title:         tpl.Title,
		VariableCount: len(tpl.Variables),
		Confidence:    res.Confidence,
		Justification: res.Justification,
		Alternatives:  make([]CandidateData, 0, len(res.Alternatives)),
	}

	var b strings.Builder
	if res.Tier == TierOracle {
		fmt.Fprintf(&b, "**Template Match Found**\n\n**Best Match:** %s\n**Confidence:** %.0f%%\n", tpl.Title, res.Confidence*100)
		if res.Justification != "" {
			fmt.Fprintf(&b, "**Why:** %s\n", res.Justification)
		}
	} else {
		fmt.Fprintf(&b, "**%s**\n\nFound %d variables.\n", tpl.Title, len(tpl.Variables))
	}

	if len(res.Alternatives) > 0 {
		b.WriteString("\n**Alternatives:**\n")
		for i, alt := range res.Alternatives {
			fmt.Fprintf(&b, "%d. %s (%.0f%%)\n", i+2, alt.Template.Title, alt.Confidence*100)
			data.Alternatives = append(data.Alternatives, CandidateData{
				TemplateID:    alt.Template.ID,
				Title:         alt.Template.Title,
				Confidence:    alt.Confidence,
				Justification: alt.Justification,
			})
		}
		b.WriteString("\nReply 'yes' to use this template, or pick an alternative by number.")
	} else {
		b.WriteString("\nReply 'yes' to proceed!")
	}

	return &Reply{Type: TypeTemplateMatch, Message: b.String(), Data: data}
}

func selectedTemplateReply(tpl *store.Template) *Reply {
	return &Reply{
		Type:    TypeTemplateMatch,
		Message: fmt.Sprintf("**%s**\n\nFound %d variables.\n\nReply 'yes' to proceed!", tpl.Title, len(tpl.Variables)),
		Data: TemplateMatchData{
			Tier:          TierEnumeration,
			TemplateID:    tpl.ID,
			Title:         tpl.Title,
			VariableCount: len(tpl.Variables),
			Alternatives:  []CandidateData{},
		},
	}
}

func webResultsReply(results []websearch.Result) *Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "**No Local Template Found - Web Search Results**\n\nI found %d similar documents online:\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "\n**%d. %s**\nURL: %s\nPreview: %s\n", i+1, r.Title, truncate(r.URL, 60), truncate(r.Text, 150))
	}
	fmt.Fprintf(&b, "\nReply with the number (1-%d) to create a template from that document.", len(results))
	return &Reply{Type: TypeWebResults, Message: b.String(), Data: WebResultsData{Results: results}}
}

func templateCreatedReply(tpl *store.Template, source string, stats extraction.Stats) *Reply {
	return &Reply{
		Type:    TypeTemplateCreated,
		Message: fmt.Sprintf("Created template: **%s**\n\nFound %d variables. Reply 'yes' to fill them in!", tpl.Title, len(tpl.Variables)),
		Data: TemplateCreatedData{
			TemplateID:    tpl.ID,
			Title:         tpl.Title,
			VariableCount: len(tpl.Variables),
			SourceURL:     source,
			Stats:         stats,
		},
	}
}

func questionReply(s *store.Session, intro string, prefilled int) *Reply {
	q, _ := s.CurrentQuestion()
	var b strings.Builder
	b.WriteString(intro)
	fmt.Fprintf(&b, "\n\n**Q%d/%d:** %s", s.Cursor+1, len(s.Questions), q.Question)
	if q.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s", q.Hint)
	}
	return &Reply{
		Type:    TypeQuestion,
		Message: b.String(),
		Data: QuestionData{
			QuestionIndex:  s.Cursor,
			TotalQuestions: len(s.Questions),
			VariableKey:    q.Key,
			Prefilled:      prefilled,
		},
	}
}

func draftReply(inst *store.Instance, draft string) *Reply {
	msg := fmt.Sprintf("**Draft Generated Successfully!**\n\n---\n\n%s\n\n---\n\n**Actions:**\n- Type 'download' to get this draft\n- Type 'edit' to change values\n- Type 'new' to start a new draft", draft)
	return &Reply{
		Type:    TypeDraft,
		Message: msg,
		Data: DraftData{
			InstanceID: inst.ID,
			TemplateID: inst.TemplateID,
			DraftMD:    draft,
			Actions:    DraftActions,
		},
	}
}

func varsStatusReply(tpl *store.Template, answers map[string]string) *Reply {
	data := VarsStatusData{
		TemplateID: tpl.ID,
		Filled:     []VariableStatus{},
		Missing:    []VariableStatus{},
		TotalCount: len(tpl.Variables),
	}
	var filled, missing []string
	for _, v := range tpl.Variables {
		st := VariableStatus{Key: v.Key, Label: v.Label, Required: v.Required}
		if val, ok := answers[v.Key]; ok {
			st.Value = val
			data.Filled = append(data.Filled, st)
			filled = append(filled, fmt.Sprintf("- %s: %s", v.Label, val))
			continue
		}
		data.Missing = append(data.Missing, st)
		kind := "Optional"
		if v.Required {
			kind = "Required"
		}
		missing = append(missing, fmt.Sprintf("- %s (%s)", v.Label, kind))
	}
	data.FilledCount = len(data.Filled)
	data.MissingCount = len(data.Missing)

	filledText, missingText := "None", "All filled!"
	if len(filled) > 0 {
		filledText = strings.Join(filled, "\n")
	}
	if len(missing) > 0 {
		missingText = strings.Join(missing, "\n")
	}

	msg := fmt.Sprintf("**Variable Status for %s**\n\n**Filled (%d):**\n%s\n\n**Missing (%d):**\n%s",
		tpl.Title, data.FilledCount, filledText, data.MissingCount, missingText)
	return &Reply{Type: TypeVarsStatus, Message: msg, Data: data}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
