package extraction

import (
	"context"
	"strings"
	"unicode/utf8"

	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/store"
	"lexi-drafting-be/pkg/utils"
)

// VariableExtractor discovers variables in one chunk of text.
type VariableExtractor interface {
	ExtractVariables(ctx context.Context, text string, known []store.Variable) oracle.Result[oracle.Extraction]
}

type Options struct {
	ChunkSize       int
	ChunkOverlap    int
	ChunkLookback   int
	MaxReplacements int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:       4000,
		ChunkOverlap:    200,
		ChunkLookback:   100,
		MaxReplacements: DefaultMaxReplacements,
	}
}

type Stats struct {
	TotalChunks    int `json:"total_chunks"`
	VariablesFound int `json:"variables_found"`
	TagsFound      int `json:"tags_found"`
	TemplateLength int `json:"template_length"`
}

// Result holds an unpersisted template.
type Result struct {
	Template store.Template `json:"template"`
	Stats    Stats          `json:"extraction_stats"`
}

type Pipeline struct {
	extractor VariableExtractor
	opts      Options
	logger    logger.ILogger
}

func NewPipeline(extractor VariableExtractor, opts Options, log logger.ILogger) *Pipeline {
	def := DefaultOptions()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = def.ChunkOverlap
	}
	if opts.ChunkLookback < 0 {
		opts.ChunkLookback = def.ChunkLookback
	}
	if opts.MaxReplacements <= 0 {
		opts.MaxReplacements = def.MaxReplacements
	}
	return &Pipeline{extractor: extractor, opts: opts, logger: log}
}

// Chunks exposes the chunking step on its own.
func (p *Pipeline) Chunks(text string) []utils.Chunk {
	return utils.SplitText(text, p.opts.ChunkSize, p.opts.ChunkOverlap, p.opts.ChunkLookback)
}

// Extract turns raw document text into a template named after source.
func (p *Pipeline) Extract(ctx context.Context, text, source string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Invalid("document text is empty")
	}
	if !utf8.ValidString(text) {
		return nil, apperror.Invalid("document text is not valid UTF-8")
	}

	tpl := store.Template{
		Title:       TitleFromFilename(source),
		Description: "Template extracted from " + source,
		DocType:     "legal_document",
	}

	if keys := FindPlaceholders(text); len(keys) > 0 {
		tpl.Body = text
		tpl.Variables = placeholderVariables(keys)
		tpl.Tags = []string{}
		return &Result{Template: tpl, Stats: statsFor(&tpl, 1)}, nil
	}

	chunks := p.Chunks(text)
	vars, tags := p.discover(ctx, chunks)

	tpl.Variables = vars
	tpl.Tags = tags
	tpl.Body = Tokenize(text, vars, p.opts.MaxReplacements)

	p.logger.Info("EXTRACTION", "Template extracted", map[string]interface{}{
		"source":    source,
		"chunks":    len(chunks),
		"variables": len(vars),
	})

	return &Result{Template: tpl, Stats: statsFor(&tpl, len(chunks))}, nil
}

// discover runs the extractor chunk by chunk. The first chunk goes in without
// context; later ones see everything found so far. First key seen wins.
func (p *Pipeline) discover(ctx context.Context, chunks []utils.Chunk) ([]store.Variable, []string) {
	vars := make([]store.Variable, 0)
	seen := make(map[string]struct{})
	var tags []string

	for i, chunk := range chunks {
		var known []store.Variable
		if i > 0 {
			known = vars
		}

		res := p.extractor.ExtractVariables(ctx, chunk.Text, known)
		if !res.OK() {
			p.logger.Warn("EXTRACTION", "Chunk contributed nothing", map[string]interface{}{
				"chunk":  i,
				"start":  chunk.Start,
				"status": res.Status.String(),
				"error":  res.Err,
			})
			continue
		}

		for _, v := range res.Value.Variables {
			v.Key = NormalizeKey(v.Key)
			if v.Key == "" {
				continue
			}
			if _, dup := seen[v.Key]; dup {
				continue
			}
			seen[v.Key] = struct{}{}
			if v.Label == "" {
				v.Label = LabelFromKey(v.Key)
			}
			v.Dtype = store.ParseDtype(string(v.Dtype))
			vars = append(vars, v)
		}
		tags = append(tags, res.Value.Tags...)
	}

	return vars, store.NormalizeTags(tags)
}

func statsFor(tpl *store.Template, chunks int) Stats {
	return Stats{
		TotalChunks:    chunks,
		VariablesFound: len(tpl.Variables),
		TagsFound:      len(tpl.Tags),
		TemplateLength: len([]rune(tpl.Body)),
	}
}
