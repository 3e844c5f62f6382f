package drafting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/internal/repository/memory"
	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/store"
	"lexi-drafting-be/pkg/websearch"
)

func okRes[T any](v T) oracle.Result[T] {
	return oracle.Result[T]{Value: v, Status: oracle.StatusOK}
}

type fakeOracle struct {
	match     oracle.Result[oracle.Match]
	prefill   oracle.Result[map[string]string]
	questions oracle.Result[[]oracle.QuestionItem]

	matchCalls       int
	questionsContext string
}

func (f *fakeOracle) MatchTemplate(context.Context, string, []store.Template) oracle.Result[oracle.Match] {
	f.matchCalls++
	return f.match
}

func (f *fakeOracle) PrefillVariables(context.Context, string, []store.Variable) oracle.Result[map[string]string] {
	return f.prefill
}

func (f *fakeOracle) GenerateQuestions(_ context.Context, _ []store.Variable, templateContext string) oracle.Result[[]oracle.QuestionItem] {
	f.questionsContext = templateContext
	return f.questions
}

func unavailableOracle() *fakeOracle {
	down := errors.New("down")
	return &fakeOracle{
		match:     oracle.Result[oracle.Match]{Status: oracle.StatusUnavailable, Err: down},
		prefill:   oracle.Result[map[string]string]{Status: oracle.StatusUnavailable, Err: down},
		questions: oracle.Result[[]oracle.QuestionItem]{Status: oracle.StatusUnavailable, Err: down},
	}
}

type fakeWeb struct {
	results []websearch.Result
	err     error
	queries []string
}

func (f *fakeWeb) Search(_ context.Context, q string) ([]websearch.Result, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

type fakeExtractor struct {
	result *extraction.Result
	err    error
	texts  []string
}

func (f *fakeExtractor) Extract(_ context.Context, text, _ string) (*extraction.Result, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	templates []string
	drafts    []string
}

func (n *recordingNotifier) TemplateCreated(_ context.Context, tpl *store.Template) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.templates = append(n.templates, tpl.ID)
}

func (n *recordingNotifier) DraftGenerated(_ context.Context, inst *store.Instance) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.drafts = append(n.drafts, inst.ID)
}

// seedTemplates stores templates with increasing creation times so list order is stable.
func seedTemplates(repo *memory.DraftingRepository, tpls ...store.Template) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range tpls {
		tpls[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_ = repo.CreateTemplate(context.Background(), &tpls[i])
	}
}

type harness struct {
	t         *testing.T
	repo      *memory.DraftingRepository
	oracle    *fakeOracle
	web       *fakeWeb
	extract   *fakeExtractor
	notifier  *recordingNotifier
	instances InstanceStore
	machine   *Machine
	session   *store.Session
}

type harnessOpt func(*harness)

func withWeb(w *fakeWeb) harnessOpt { return func(h *harness) { h.web = w } }

func withInstances(i InstanceStore) harnessOpt { return func(h *harness) { h.instances = i } }

// flakyInstances fails UpdateInstance while failUpdates is set.
type flakyInstances struct {
	*memory.DraftingRepository
	failUpdates bool
}

func (f *flakyInstances) UpdateInstance(ctx context.Context, inst *store.Instance) error {
	if f.failUpdates {
		return errors.New("connection reset")
	}
	return f.DraftingRepository.UpdateInstance(ctx, inst)
}

func newHarness(t *testing.T, o *fakeOracle, opts ...harnessOpt) *harness {
	h := &harness{
		t:        t,
		repo:     memory.NewDraftingRepository(),
		oracle:   o,
		extract:  &fakeExtractor{},
		notifier: &recordingNotifier{},
		session:  store.NewSession("conv_test"),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.instances == nil {
		h.instances = h.repo
	}

	log := logger.NewNopLogger()
	var web websearch.Provider
	if h.web != nil {
		web = h.web
	}
	h.machine = NewMachine(MachineDeps{
		Templates: h.repo,
		Instances: h.instances,
		Matcher:   NewMatcher(h.repo, o, web, 0.6, log),
		Collector: NewCollector(o, log),
		Extractor: h.extract,
		Notifier:  h.notifier,
		Logger:    log,
	})
	return h
}

func (h *harness) send(msg string) *Reply {
	h.t.Helper()
	r, err := h.machine.Handle(context.Background(), h.session, msg)
	require.NoError(h.t, err)
	return r
}
