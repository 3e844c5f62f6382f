package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/repository/memory"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) (IChatService, *memory.DraftingRepository) {
	t.Helper()
	repo := memory.NewDraftingRepository()
	matcher := drafting.NewMatcher(repo, downRanker{}, nil, 0, nopLog)
	machine := drafting.NewMachine(drafting.MachineDeps{
		Templates: repo,
		Instances: repo,
		Matcher:   matcher,
		Collector: drafting.NewCollector(nil, nopLog),
		Logger:    nopLog,
	})
	engine := drafting.NewEngine(drafting.NewRegistry(memory.NewSessionRepository(time.Hour)), machine, nopLog)
	return NewChatService(engine, repo), repo
}

func TestChatService_NewConversation(t *testing.T) {
	svc, _ := newChatService(t)
	ctx := context.Background()

	reply, err := svc.SendMessage(ctx, &dto.ChatMessageRequest{Message: "hello"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.ConversationID, "conv_"))
	assert.Equal(t, drafting.TypeNoTemplates, reply.Type)

	conv, err := svc.Conversation(ctx, reply.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, store.StateIdle, conv.State)

	_, err = svc.Conversation(ctx, "conv_unknown")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)

	_, err = svc.SendMessage(ctx, &dto.ChatMessageRequest{Message: strings.Repeat("a", maxMessageLength+1)})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestChatService_InstanceHtml(t *testing.T) {
	svc, repo := newChatService(t)
	ctx := context.Background()

	draft := "# Lease\n\nBetween **Jane** and John.<script>alert(1)</script>"
	inst := &store.Instance{TemplateID: "tpl_1", Answers: map[string]string{}, Draft: &draft}
	require.NoError(t, repo.CreateInstance(ctx, inst))

	plain, err := svc.Instance(ctx, inst.ID, false)
	require.NoError(t, err)
	assert.Nil(t, plain.DraftHtml)

	rendered, err := svc.Instance(ctx, inst.ID, true)
	require.NoError(t, err)
	require.NotNil(t, rendered.DraftHtml)
	assert.Contains(t, *rendered.DraftHtml, "<h1")
	assert.Contains(t, *rendered.DraftHtml, "<strong>Jane</strong>")
	assert.NotContains(t, *rendered.DraftHtml, "<script>")

	_, err = svc.Instance(ctx, "inst_missing", true)
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)
}
