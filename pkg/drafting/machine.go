package drafting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"
)

// Machine drives one session through the drafting dialogue. It holds no
// per-session state; callers serialize access to each session.
type Machine struct {
	templates TemplateStore
	instances InstanceStore
	matcher   *Matcher
	collector *Collector
	extractor Extractor
	notifier  Notifier
	logger    logger.ILogger
	now       func() time.Time
}

type MachineDeps struct {
	Templates TemplateStore
	Instances InstanceStore
	Matcher   *Matcher
	Collector *Collector
	Extractor Extractor
	Notifier  Notifier // optional
	Logger    logger.ILogger
}

func NewMachine(d MachineDeps) *Machine {
	notifier := d.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Machine{
		templates: d.Templates,
		instances: d.Instances,
		matcher:   d.Matcher,
		collector: d.Collector,
		extractor: d.Extractor,
		notifier:  notifier,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// Handle applies one user message to s and returns the reply. Commands are
// checked first, then the current state decides.
func (m *Machine) Handle(ctx context.Context, s *store.Session, message string) (*Reply, error) {
	msg := strings.TrimSpace(message)

	switch cmd := ParseCommand(msg); cmd.Kind {
	case CommandDraft:
		if cmd.Query == "" {
			return textReply(msgDraftUsage), nil
		}
		return m.startMatch(ctx, s, cmd.Query)
	case CommandVars:
		return m.varsStatus(ctx, s)
	}

	switch s.State {
	case store.StateAwaitingTemplateSelection:
		return m.handleSelection(ctx, s, msg)
	case store.StateWebBootstrap:
		return m.handleWebSelection(ctx, s, msg)
	case store.StateTemplateMatched:
		return m.handleMatched(ctx, s, msg)
	case store.StateAnsweringQuestions:
		return m.handleAnswer(ctx, s, msg)
	case store.StateDraftGenerated:
		return m.handleAfterDraft(ctx, s, msg)
	default:
		if msg == "" {
			return textReply(msgAskForRequest), nil
		}
		return m.startMatch(ctx, s, msg)
	}
}

func (m *Machine) startMatch(ctx context.Context, s *store.Session, query string) (*Reply, error) {
	res, err := m.matcher.Match(ctx, query)
	if err != nil {
		return nil, err
	}

	held := s.TemplateID
	s.Reset()
	s.Query = query

	m.logger.Info("MACHINE", "Query resolved", map[string]interface{}{
		"session_id": s.ID,
		"tier":       string(res.Tier),
	})

	switch res.Tier {
	case TierKeyword, TierOracle:
		s.State = store.StateTemplateMatched
		s.TemplateID = res.Template.ID
		s.Candidates = res.Candidates()
		return templateMatchReply(res), nil
	case TierEnumeration:
		// A confirmation while choosing accepts the last matched template.
		s.State = store.StateAwaitingTemplateSelection
		s.TemplateID = held
		s.Candidates = res.Candidates()
		return templateListReply(res.Templates), nil
	case TierWeb:
		s.State = store.StateWebBootstrap
		s.WebResults = res.WebResults
		return webResultsReply(res.WebResults), nil
	case TierNoTemplates:
		return &Reply{Type: TypeNoTemplates, Message: msgNoTemplates}, nil
	default:
		text := msgNoMatch
		if res.WebConfigured {
			text = msgNoWebMatch
		}
		return &Reply{Type: TypeNoMatch, Message: text, Data: NoMatchData{HasWebSearch: res.WebConfigured}}, nil
	}
}

func (m *Machine) handleSelection(ctx context.Context, s *store.Session, msg string) (*Reply, error) {
	if IsConfirmation(msg) {
		if s.TemplateID == "" {
			return textReply(msgSelectionPrompt), nil
		}
		return m.startQuestions(ctx, s)
	}
	if idx, ok := m.candidateIndex(s, msg); ok {
		return m.selectCandidate(ctx, s, idx)
	}
	return textReply(msgSelectionPrompt), nil
}

func (m *Machine) handleMatched(ctx context.Context, s *store.Session, msg string) (*Reply, error) {
	switch {
	case msg == "":
		return textReply(msgSelectionPrompt), nil
	case IsConfirmation(msg):
		return m.startQuestions(ctx, s)
	}
	if isNumeric(msg) {
		if idx, ok := m.candidateIndex(s, msg); ok {
			return m.selectCandidate(ctx, s, idx)
		}
		return textReply(msgSelectionPrompt), nil
	}
	return m.startMatch(ctx, s, msg)
}

func isNumeric(msg string) bool {
	_, err := strconv.Atoi(msg)
	return err == nil
}

func (m *Machine) candidateIndex(s *store.Session, msg string) (int, bool) {
	n, ok := ParseIndex(msg)
	if !ok || n > len(s.Candidates) {
		return 0, false
	}
	return n - 1, true
}

func (m *Machine) selectCandidate(ctx context.Context, s *store.Session, idx int) (*Reply, error) {
	tpl, err := m.templates.GetTemplate(ctx, s.Candidates[idx])
	if err != nil {
		return nil, err
	}
	s.TemplateID = tpl.ID
	s.State = store.StateTemplateMatched
	return selectedTemplateReply(tpl), nil
}

func (m *Machine) handleWebSelection(ctx context.Context, s *store.Session, msg string) (*Reply, error) {
	n, ok := ParseIndex(msg)
	if !ok || n > len(s.WebResults) {
		return textReply(msgWebPrompt), nil
	}
	result := s.WebResults[n-1]

	extracted, err := m.extractor.Extract(ctx, result.Text, result.Title)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidInput) {
			return textReply("That result has no usable text. %s", msgWebPrompt), nil
		}
		return nil, fmt.Errorf("extract web template: %w", err)
	}

	tpl := extracted.Template
	tpl.Description = "Template bootstrapped from " + result.URL
	if err := m.templates.CreateTemplate(ctx, &tpl); err != nil {
		return nil, fmt.Errorf("save web template: %w", err)
	}
	m.notifier.TemplateCreated(ctx, &tpl)

	s.TemplateID = tpl.ID
	s.Candidates = []string{tpl.ID}
	s.WebResults = nil
	s.State = store.StateTemplateMatched

	return templateCreatedReply(&tpl, result.URL, extracted.Stats), nil
}

func (m *Machine) startQuestions(ctx context.Context, s *store.Session) (*Reply, error) {
	tpl, err := m.templates.GetTemplate(ctx, s.TemplateID)
	if err != nil {
		return nil, err
	}

	s.Answers = m.collector.Prefill(ctx, s.Query, tpl)
	prefilled := len(s.Answers)

	inst := &store.Instance{
		TemplateID: tpl.ID,
		Query:      s.Query,
		Answers:    copyAnswers(s.Answers),
	}
	if err := m.instances.CreateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	s.InstanceID = inst.ID

	remaining := Remaining(tpl.Variables, s.Answers)
	if len(remaining) == 0 {
		return m.finish(ctx, s, tpl)
	}

	s.Questions = m.collector.Questions(ctx, tpl, remaining)
	s.Cursor = 0
	s.State = store.StateAnsweringQuestions

	intro := fmt.Sprintf("**Let's fill in the details**\n\nPre-filled %d variables from your request.\n%d questions remaining.", prefilled, len(remaining))
	return questionReply(s, intro, prefilled), nil
}

func (m *Machine) handleAnswer(ctx context.Context, s *store.Session, msg string) (*Reply, error) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return m.finish(ctx, s, nil)
	}
	if msg == "" {
		return questionReply(s, "I still need an answer for this one.", 0), nil
	}

	inst, err := m.instances.GetInstance(ctx, s.InstanceID)
	if err != nil {
		return nil, err
	}
	answers := copyAnswers(s.Answers)
	answers[q.Key] = msg
	inst.Answers = answers
	inst.UpdatedAt = m.now()
	if err := m.instances.UpdateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("update instance: %w", err)
	}

	// The session only advances once the instance holds the answer.
	s.Answers = copyAnswers(answers)
	s.Cursor++

	if s.Cursor >= len(s.Questions) {
		return m.finish(ctx, s, nil)
	}
	return questionReply(s, "Got it!", 0), nil
}

// finish renders the draft and stores it on the instance. tpl may be nil.
func (m *Machine) finish(ctx context.Context, s *store.Session, tpl *store.Template) (*Reply, error) {
	if tpl == nil {
		var err error
		if tpl, err = m.templates.GetTemplate(ctx, s.TemplateID); err != nil {
			return nil, err
		}
	}

	draft := Render(tpl.Body, s.Answers)

	inst, err := m.instances.GetInstance(ctx, s.InstanceID)
	if err != nil {
		return nil, err
	}
	inst.Answers = copyAnswers(s.Answers)
	inst.Draft = &draft
	inst.UpdatedAt = m.now()
	if err := m.instances.UpdateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("update instance: %w", err)
	}

	s.State = store.StateDraftGenerated
	m.notifier.DraftGenerated(ctx, inst)

	return draftReply(inst, draft), nil
}

func (m *Machine) handleAfterDraft(ctx context.Context, s *store.Session, msg string) (*Reply, error) {
	switch strings.ToLower(msg) {
	case "new":
		s.Reset()
		return textReply("Starting fresh. %s", msgAskForRequest), nil
	case "download":
		return &Reply{
			Type:    TypeText,
			Message: fmt.Sprintf("Your draft is saved as instance %s. Fetch it from /api/chat/v1/instances/%s.", s.InstanceID, s.InstanceID),
			Data:    map[string]string{"instance_id": s.InstanceID},
		}, nil
	case "edit":
		return textReply("Send /vars to review the values used, or /draft <request> to start again with corrected details."), nil
	case "":
		return textReply("Type 'download', 'edit' or 'new'."), nil
	}
	return m.startMatch(ctx, s, msg)
}

func (m *Machine) varsStatus(ctx context.Context, s *store.Session) (*Reply, error) {
	if s.TemplateID == "" {
		return textReply(msgNoSelection), nil
	}
	tpl, err := m.templates.GetTemplate(ctx, s.TemplateID)
	if err != nil {
		if errors.Is(err, apperror.ErrReferentialNotFound) {
			return textReply("Template not found."), nil
		}
		return nil, err
	}
	return varsStatusReply(tpl, s.Answers), nil
}

func copyAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
