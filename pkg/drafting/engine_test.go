package drafting

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/internal/repository/memory"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"
)

func newTestEngine(t *testing.T, h *harness) (*Engine, *memory.SessionRepository) {
	t.Helper()
	sessions := memory.NewSessionRepository(0)
	return NewEngine(NewRegistry(sessions), h.machine, logger.NewNopLogger()), sessions
}

func TestEngine_AssignsConversationID(t *testing.T) {
	h := newHarness(t, unavailableOracle())
	seedTemplates(h.repo, catalogue()...)
	eng, _ := newTestEngine(t, h)

	r, err := eng.Handle(context.Background(), "", "rental")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.ConversationID, "conv_"), r.ConversationID)

	again, err := eng.Handle(context.Background(), r.ConversationID, "yes")
	require.NoError(t, err)
	assert.Equal(t, r.ConversationID, again.ConversationID)
	assert.Equal(t, TypeDraft, again.Type)
}

func TestEngine_ConversationSnapshot(t *testing.T) {
	h := newHarness(t, unavailableOracle())
	seedTemplates(h.repo, catalogue()...)
	eng, _ := newTestEngine(t, h)

	_, err := eng.Conversation(context.Background(), "conv_nope")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)

	_, err = eng.Handle(context.Background(), "conv_1", "rental")
	require.NoError(t, err)

	got, err := eng.Conversation(context.Background(), "conv_1")
	require.NoError(t, err)
	want := &store.Session{
		ID:         "conv_1",
		State:      store.StateTemplateMatched,
		TemplateID: "tpl_lease",
		Query:      "rental",
		Answers:    map[string]string{},
		Candidates: []string{"tpl_lease"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(store.Session{}, "UpdatedAt"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}

	// Mutating the snapshot does not touch the stored session.
	got.State = store.StateIdle
	again, err := eng.Conversation(context.Background(), "conv_1")
	require.NoError(t, err)
	assert.Equal(t, store.StateTemplateMatched, again.State)
}

func TestEngine_ResetsOnMissingRecord(t *testing.T) {
	h := newHarness(t, unavailableOracle())
	seedTemplates(h.repo, *leaseTemplate())
	eng, sessions := newTestEngine(t, h)

	_, err := eng.Handle(context.Background(), "conv_1", "lease")
	require.NoError(t, err)
	require.NoError(t, h.repo.DeleteTemplate(context.Background(), "tpl_lease"))

	_, err = eng.Handle(context.Background(), "conv_1", "yes")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)

	s, err := sessions.Get(context.Background(), "conv_1")
	require.NoError(t, err)
	assert.Equal(t, store.StateIdle, s.State)
	assert.Empty(t, s.TemplateID)
}
