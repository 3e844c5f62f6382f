package store

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Dtype is the value kind a variable expects.
type Dtype string

const (
	DtypeString Dtype = "string"
	DtypeNumber Dtype = "number"
	DtypeDate   Dtype = "date"
	DtypeEnum   Dtype = "enum"
)

// ParseDtype maps unknown or empty kinds to DtypeString.
func ParseDtype(s string) Dtype {
	switch d := Dtype(strings.ToLower(strings.TrimSpace(s))); d {
	case DtypeNumber, DtypeDate, DtypeEnum:
		return d
	default:
		return DtypeString
	}
}

type Variable struct {
	Key         string   `json:"key" yaml:"key"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Example     string   `json:"example,omitempty" yaml:"example,omitempty"`
	Required    bool     `json:"required" yaml:"required"`
	Dtype       Dtype    `json:"dtype" yaml:"dtype"`
	Regex       string   `json:"regex,omitempty" yaml:"regex,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
}

type Template struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DocType      string     `json:"doc_type"`
	Jurisdiction string     `json:"jurisdiction"`
	Tags         []string   `json:"similarity_tags"`
	Body         string     `json:"body"`
	Variables    []Variable `json:"variables"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Variable looks up a variable by key.
func (t *Template) Variable(key string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.Key == key {
			return v, true
		}
	}
	return Variable{}, false
}

type Instance struct {
	ID         string            `json:"id"`
	TemplateID string            `json:"template_id"`
	Query      string            `json:"user_query"`
	Answers    map[string]string `json:"answers"`
	Draft      *string           `json:"draft_md"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Document is uploaded source text for template extraction.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	Text      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTags lowercases, trims, dedupes and sorts tags.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func NewTemplateID() string { return newID("tpl_") }
func NewInstanceID() string { return newID("inst_") }
func NewDocumentID() string { return newID("doc_") }

// NewConversationID is used when a client opens a chat without one.
func NewConversationID() string { return newID("conv_") }
