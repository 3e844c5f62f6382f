package export

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"lexi-drafting-be/pkg/store"
)

const fence = "---"

// FrontMatter is the YAML header written above an exported template body.
type FrontMatter struct {
	TemplateID     string           `yaml:"template_id"`
	Title          string           `yaml:"title"`
	Description    string           `yaml:"file_description"`
	Jurisdiction   string           `yaml:"jurisdiction"`
	DocType        string           `yaml:"doc_type"`
	Variables      []store.Variable `yaml:"variables"`
	SimilarityTags []string         `yaml:"similarity_tags"`
}

// Markdown renders tpl as a Markdown document with YAML front-matter.
func Markdown(tpl *store.Template) (string, error) {
	fm := FrontMatter{
		TemplateID:     tpl.ID,
		Title:          tpl.Title,
		Description:    tpl.Description,
		Jurisdiction:   tpl.Jurisdiction,
		DocType:        tpl.DocType,
		Variables:      tpl.Variables,
		SimilarityTags: tpl.Tags,
	}
	if fm.Variables == nil {
		fm.Variables = []store.Variable{}
	}
	if fm.SimilarityTags == nil {
		fm.SimilarityTags = []string{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode front-matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return fence + "\n" + buf.String() + fence + "\n\n" + tpl.Body, nil
}

// ParseMarkdown reads a document produced by Markdown. A document without
// front-matter becomes a template whose body is the whole input.
func ParseMarkdown(doc string) (*store.Template, error) {
	doc = strings.TrimPrefix(doc, "\uFEFF")
	if !strings.HasPrefix(doc, fence+"\n") {
		return &store.Template{Body: doc}, nil
	}

	rest := doc[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+fence) {
			end = len(rest) - len(fence) - 1
		} else {
			return nil, fmt.Errorf("front-matter is not closed")
		}
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil, fmt.Errorf("decode front-matter: %w", err)
	}

	body := ""
	if after := end + len(fence) + 2; after < len(rest) {
		body = strings.TrimPrefix(rest[after:], "\n")
	}

	for i := range fm.Variables {
		fm.Variables[i].Dtype = store.ParseDtype(string(fm.Variables[i].Dtype))
	}

	return &store.Template{
		ID:           fm.TemplateID,
		Title:        fm.Title,
		Description:  fm.Description,
		Jurisdiction: fm.Jurisdiction,
		DocType:      fm.DocType,
		Variables:    fm.Variables,
		Tags:         store.NormalizeTags(fm.SimilarityTags),
		Body:         body,
	}, nil
}
