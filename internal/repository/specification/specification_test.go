package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	Id string
}

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost", PreferSimpleProtocol: true}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Skipf("postgres dialector unavailable: %v", err)
	}
	return db
}

func sql(db *gorm.DB, specs ...Specification) string {
	q := db.Table("templates")
	for _, s := range specs {
		q = s.Apply(q)
	}
	var out []row
	return q.Find(&out).Statement.SQL.String()
}

func TestSpecifications(t *testing.T) {
	db := dryRun(t)

	tests := []struct {
		name  string
		specs []Specification
		want  string
	}{
		{"by id", []Specification{ByID{ID: "tpl_1"}}, `WHERE id = $1`},
		{"stable order", []Specification{StableOrder{}}, `ORDER BY created_at ASC,id ASC`},
		{"paging", []Specification{Pagination{Limit: 10, Offset: 20}}, `LIMIT $1 OFFSET $2`},
		{"doc type", []Specification{ByDocType{DocType: "nda"}}, `WHERE doc_type = $1`},
		{"title", []Specification{TitleContains{Query: "lease"}}, `WHERE title ILIKE $1`},
		{"missing embedding", []Specification{MissingEmbedding{}}, `WHERE embedding IS NULL`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, sql(db, tt.specs...), tt.want)
		})
	}
}

func TestEmptyFiltersAreNoops(t *testing.T) {
	db := dryRun(t)
	got := sql(db, ByDocType{}, TitleContains{})
	assert.NotContains(t, got, "WHERE")
}
