package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"lexi-drafting-be/internal/model"
	"lexi-drafting-be/internal/repository/unitofwork"
	"lexi-drafting-be/internal/service"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/database"
	"lexi-drafting-be/pkg/store"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftingStore(t *testing.T) *service.DraftingStore {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, database.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB, model.All(), model.Indexes...))

	return service.NewDraftingStore(unitofwork.NewRepositoryFactory(gormDB))
}

func embeddingAt(axis int) []float32 {
	v := make([]float32, 768)
	v[axis] = 1
	return v
}

func TestDraftingStore_TemplateLifecycle(t *testing.T) {
	s := newDraftingStore(t)
	ctx := context.Background()

	tpl := &store.Template{
		ID:           store.NewTemplateID(),
		Title:        "Integration NDA",
		DocType:      "nda",
		Jurisdiction: "IN",
		Tags:         []string{"confidentiality", "nda"},
		Body:         "This agreement is between {{party_a}} and {{party_b}}.",
		Variables: []store.Variable{
			{Key: "party_a", Label: "Party A", Required: true, Dtype: store.DtypeString},
			{Key: "party_b", Label: "Party B", Required: true, Dtype: store.DtypeString},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateTemplate(ctx, tpl))
	t.Cleanup(func() { _ = s.DeleteTemplate(context.Background(), tpl.ID) })

	got, err := s.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Title, got.Title)
	assert.Len(t, got.Variables, 2)

	templates, total, err := s.PageTemplates(ctx, 0, 10, "integration nda")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(1))
	assert.NotEmpty(t, templates)

	got.Title = "Integration NDA v2"
	got.Variables = got.Variables[:1]
	require.NoError(t, s.UpdateTemplate(ctx, got))

	got, err = s.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Integration NDA v2", got.Title)
	assert.Len(t, got.Variables, 1)

	inst := &store.Instance{
		ID:         store.NewInstanceID(),
		TemplateID: tpl.ID,
		Query:      "need an nda",
		Answers:    map[string]string{"party_a": "Acme"},
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.CreateInstance(ctx, inst))

	draft := "This agreement is between Acme."
	inst.Draft = &draft
	require.NoError(t, s.UpdateInstance(ctx, inst))

	gotInst, err := s.GetInstance(ctx, inst.ID)
	require.NoError(t, err)
	require.NotNil(t, gotInst.Draft)
	assert.Equal(t, draft, *gotInst.Draft)
	assert.Equal(t, "Acme", gotInst.Answers["party_a"])
}

func TestDraftingStore_SimilarTemplates(t *testing.T) {
	s := newDraftingStore(t)
	ctx := context.Background()

	near := &store.Template{ID: store.NewTemplateID(), Title: "Near", Body: "near body", CreatedAt: time.Now().UTC()}
	far := &store.Template{ID: store.NewTemplateID(), Title: "Far", Body: "far body", CreatedAt: time.Now().UTC()}
	for _, tpl := range []*store.Template{near, far} {
		require.NoError(t, s.CreateTemplate(ctx, tpl))
		id := tpl.ID
		t.Cleanup(func() { _ = s.DeleteTemplate(context.Background(), id) })
	}
	require.NoError(t, s.SetTemplateEmbedding(ctx, near.ID, embeddingAt(0)))
	require.NoError(t, s.SetTemplateEmbedding(ctx, far.ID, embeddingAt(1)))

	scored, err := s.SimilarTemplates(ctx, embeddingAt(0), 50, "")
	require.NoError(t, err)
	require.NotEmpty(t, scored)
	assert.Equal(t, near.ID, scored[0].Template.ID)
	assert.InDelta(t, 1.0, scored[0].Similarity, 1e-6)

	scored, err = s.SimilarTemplates(ctx, embeddingAt(0), 50, near.ID)
	require.NoError(t, err)
	for _, st := range scored {
		assert.NotEqual(t, near.ID, st.Template.ID)
	}
}

func TestDraftingStore_Documents(t *testing.T) {
	s := newDraftingStore(t)
	ctx := context.Background()

	doc := &store.Document{
		ID:        store.NewDocumentID(),
		Filename:  "lease.txt",
		MimeType:  "text/plain",
		Text:      "The tenant shall pay rent monthly.",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateDocument(ctx, doc))
	require.NoError(t, s.SetDocumentEmbedding(ctx, doc.ID, embeddingAt(2)))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Text, got.Text)
}

func TestDraftingStore_NotFound(t *testing.T) {
	s := newDraftingStore(t)
	ctx := context.Background()

	_, err := s.GetTemplate(ctx, "tpl_missing")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)

	_, err = s.GetInstance(ctx, "inst_missing")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)

	_, err = s.GetDocument(ctx, "doc_missing")
	assert.ErrorIs(t, err, apperror.ErrReferentialNotFound)
}
