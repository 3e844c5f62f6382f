package store

import (
	"time"

	"lexi-drafting-be/pkg/websearch"
)

// State is the position of a drafting session in its dialogue.
type State string

const (
	StateIdle                      State = "idle"
	StateAwaitingTemplateSelection State = "awaiting_template_selection"
	StateTemplateMatched           State = "template_matched"
	StateWebBootstrap              State = "web_bootstrap"
	StateAnsweringQuestions        State = "answering_questions"
	StateDraftGenerated            State = "draft_generated"
)

// Question is one pending prompt for a template variable.
type Question struct {
	Key      string `json:"key"`
	Question string `json:"question"`
	Hint     string `json:"hint,omitempty"`
}

// Session represents the drafting dialogue state of one conversation
type Session struct {
	ID         string            `json:"id"` // conversation id
	State      State             `json:"state"`
	TemplateID string            `json:"template_id,omitempty"`
	InstanceID string            `json:"instance_id,omitempty"`
	Answers    map[string]string `json:"answers"`
	Questions  []Question        `json:"questions"`
	Cursor     int               `json:"cursor"`
	Query      string            `json:"query"`

	// Web pages offered while in web_bootstrap
	WebResults []websearch.Result `json:"web_results,omitempty"`

	// Template ids in the order they were shown to the user
	Candidates []string `json:"candidates,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns an idle session for id.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		State:   StateIdle,
		Answers: map[string]string{},
	}
}

// Reset returns the session to idle, keeping its id.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, State: StateIdle, Answers: map[string]string{}, UpdatedAt: s.UpdatedAt}
}

// CurrentQuestion returns the question under the cursor, if any.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Cursor], true
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Questions = append([]Question(nil), s.Questions...)
	out.WebResults = append([]websearch.Result(nil), s.WebResults...)
	out.Candidates = append([]string(nil), s.Candidates...)
	return &out
}
