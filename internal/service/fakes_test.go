package service

import (
	"context"
	"errors"
	"sync"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/embedding"
	"lexi-drafting-be/pkg/events"
	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/store"
)

var nopLog = logger.NewNopLogger()

type downRanker struct{}

func (downRanker) MatchTemplate(context.Context, string, []store.Template) oracle.Result[oracle.Match] {
	return oracle.Result[oracle.Match]{Status: oracle.StatusUnavailable, Err: errors.New("down")}
}

type fakeEmbedder struct {
	mu    sync.Mutex
	calls []embedding.Task
	vec   []float32
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string, task embedding.Task) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, task)
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeExtractor struct {
	result *extraction.Result
	err    error
}

func (f *fakeExtractor) Extract(context.Context, string, string) (*extraction.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

type recordingJobs struct {
	mu       sync.Mutex
	payloads []string
}

func (r *recordingJobs) Publish(_ context.Context, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, string(payload))
	return nil
}

type recordingNotifier struct {
	created   []string
	changed   []string
	drafts    []string
	documents []string
}

func (n *recordingNotifier) TemplateCreated(_ context.Context, tpl *store.Template) {
	n.created = append(n.created, tpl.ID)
}
func (n *recordingNotifier) TemplateChanged(_ context.Context, tpl *store.Template) {
	n.changed = append(n.changed, tpl.ID)
}
func (n *recordingNotifier) DraftGenerated(_ context.Context, inst *store.Instance) {
	n.drafts = append(n.drafts, inst.ID)
}
func (n *recordingNotifier) DocumentUploaded(_ context.Context, doc *store.Document) {
	n.documents = append(n.documents, doc.ID)
}

type fakeEventPublisher struct {
	err    error
	events []events.Event
}

func (f *fakeEventPublisher) Publish(_ context.Context, evt events.Event) error {
	f.events = append(f.events, evt)
	return f.err
}

type recordingHub struct {
	mu    sync.Mutex
	types []string
	data  []interface{}
}

func (h *recordingHub) Broadcast(messageType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, messageType)
	h.data = append(h.data, data)
}
