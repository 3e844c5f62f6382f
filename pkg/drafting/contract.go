package drafting

import (
	"context"

	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/store"
)

// TemplateStore is the template side of the persistence contract.
// ListTemplates returns templates oldest first, ties broken by id.
// Lookups of unknown ids return an error wrapping apperror.ErrReferentialNotFound.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]store.Template, error)
	GetTemplate(ctx context.Context, id string) (*store.Template, error)
	CreateTemplate(ctx context.Context, tpl *store.Template) error
}

type InstanceStore interface {
	CreateInstance(ctx context.Context, inst *store.Instance) error
	GetInstance(ctx context.Context, id string) (*store.Instance, error)
	UpdateInstance(ctx context.Context, inst *store.Instance) error
}

// SessionStore persists sessions between messages. Get returns nil, nil for unknown ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*store.Session, error)
	Save(ctx context.Context, session *store.Session) error
}

type TemplateRanker interface {
	MatchTemplate(ctx context.Context, query string, templates []store.Template) oracle.Result[oracle.Match]
}

type QuestionOracle interface {
	PrefillVariables(ctx context.Context, query string, vars []store.Variable) oracle.Result[map[string]string]
	GenerateQuestions(ctx context.Context, vars []store.Variable, templateContext string) oracle.Result[[]oracle.QuestionItem]
}

type Extractor interface {
	Extract(ctx context.Context, text, source string) (*extraction.Result, error)
}

// Notifier receives domain events. Implementations must not block the dialogue.
type Notifier interface {
	TemplateCreated(ctx context.Context, tpl *store.Template)
	DraftGenerated(ctx context.Context, inst *store.Instance)
}

type nopNotifier struct{}

func (nopNotifier) TemplateCreated(context.Context, *store.Template) {}
func (nopNotifier) DraftGenerated(context.Context, *store.Instance)  {}
