package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"
)

func TestSessionRepository_SaveGetCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(0)

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	s := store.NewSession("conv_1")
	s.Answers["a"] = "1"
	require.NoError(t, repo.Save(ctx, s))
	s.Answers["a"] = "mutated"

	got, err = repo.Get(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Answers["a"])

	require.NoError(t, repo.Delete(ctx, "conv_1"))
	got, _ = repo.Get(ctx, "conv_1")
	assert.Nil(t, got)
}

func TestSessionRepository_TTL(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(10 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, store.NewSession("conv_1")))

	time.Sleep(30 * time.Millisecond)
	got, err := repo.Get(ctx, "conv_1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftingRepository_TemplateOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftingRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTemplate(ctx, &store.Template{ID: "tpl_b", Title: "B", CreatedAt: base}))
	require.NoError(t, repo.CreateTemplate(ctx, &store.Template{ID: "tpl_a", Title: "A", CreatedAt: base}))
	require.NoError(t, repo.CreateTemplate(ctx, &store.Template{ID: "tpl_0", Title: "Old", CreatedAt: base.Add(-time.Hour)}))

	list, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"tpl_0", "tpl_a", "tpl_b"}, ids)
}

func TestDraftingRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftingRepository()

	_, err := repo.GetTemplate(ctx, "tpl_x")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)
	_, err = repo.GetInstance(ctx, "inst_x")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)
	assert.ErrorIs(t, repo.UpdateInstance(ctx, &store.Instance{ID: "inst_x"}), apperror.ErrReferentialNotFound)
	assert.ErrorIs(t, repo.DeleteTemplate(ctx, "tpl_x"), apperror.ErrReferentialNotFound)
}

func TestDraftingRepository_InstanceLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftingRepository()

	inst := &store.Instance{TemplateID: "tpl_a", Answers: map[string]string{"k": "v"}}
	require.NoError(t, repo.CreateInstance(ctx, inst))
	assert.Regexp(t, `^inst_[0-9a-f]{12}$`, inst.ID)

	draft := "done"
	inst.Draft = &draft
	require.NoError(t, repo.UpdateInstance(ctx, inst))

	got, err := repo.GetInstance(ctx, inst.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Draft)
	assert.Equal(t, "done", *got.Draft)
}
