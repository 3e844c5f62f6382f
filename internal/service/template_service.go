package service

import (
	"context"
	"fmt"
	"strings"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/embedding"
	"lexi-drafting-be/pkg/export"
	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/store"
)

const (
	defaultPageLimit    = 20
	maxPageLimit        = 100
	defaultSimilarLimit = 5
)

type ITemplateService interface {
	Create(ctx context.Context, req *dto.CreateTemplateRequest) (*store.Template, error)
	List(ctx context.Context, skip, limit int, query string) (*dto.TemplateListResponse, error)
	Show(ctx context.Context, id string) (*store.Template, error)
	Update(ctx context.Context, req *dto.UpdateTemplateRequest) (*store.Template, error)
	Delete(ctx context.Context, id string) error
	Variables(ctx context.Context, id string) ([]store.Variable, error)
	Match(ctx context.Context, query string) (*dto.TemplateMatchResponse, error)
	Export(ctx context.Context, id string) (string, error)
	Similar(ctx context.Context, id string, limit int) ([]dto.SimilarTemplateResponse, error)
}

type templateService struct {
	catalog           Catalog
	matcher           *drafting.Matcher
	embeddingProvider embedding.EmbeddingProvider // nil disables Similar
	notifier          INotifierService
}

func NewTemplateService(
	catalog Catalog,
	matcher *drafting.Matcher,
	embeddingProvider embedding.EmbeddingProvider,
	notifier INotifierService,
) ITemplateService {
	return &templateService{
		catalog:           catalog,
		matcher:           matcher,
		embeddingProvider: embeddingProvider,
		notifier:          notifier,
	}
}

func toVariables(reqs []dto.VariableRequest) ([]store.Variable, error) {
	out := make([]store.Variable, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		key := extraction.NormalizeKey(r.Key)
		if key == "" {
			return nil, apperror.Invalid("variable key %q is not usable", r.Key)
		}
		if _, dup := seen[key]; dup {
			return nil, apperror.Invalid("duplicate variable key %q", key)
		}
		seen[key] = struct{}{}

		label := strings.TrimSpace(r.Label)
		if label == "" {
			label = extraction.LabelFromKey(key)
		}
		required := true
		if r.Required != nil {
			required = *r.Required
		}
		out = append(out, store.Variable{
			Key:         key,
			Label:       label,
			Description: r.Description,
			Example:     r.Example,
			Required:    required,
			Dtype:       store.ParseDtype(r.Dtype),
			Regex:       r.Regex,
			EnumValues:  r.EnumValues,
		})
	}
	return out, nil
}

func (s *templateService) Create(ctx context.Context, req *dto.CreateTemplateRequest) (*store.Template, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.BodyMd) == "" {
		return nil, apperror.Invalid("title and body_md are required")
	}

	vars, err := toVariables(req.Variables)
	if err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		vars = extraction.VariablesFromBody(req.BodyMd)
	}

	tpl := &store.Template{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		DocType:      req.DocType,
		Jurisdiction: req.Jurisdiction,
		Tags:         store.NormalizeTags(req.SimilarityTags),
		Body:         req.BodyMd,
		Variables:    vars,
	}
	if err := s.catalog.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	s.notifier.TemplateCreated(ctx, tpl)
	return tpl, nil
}

func (s *templateService) List(ctx context.Context, skip, limit int, query string) (*dto.TemplateListResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	templates, total, err := s.catalog.PageTemplates(ctx, skip, limit, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []store.Template{}
	}
	return &dto.TemplateListResponse{
		Templates: templates,
		Total:     total,
		Skip:      skip,
		Limit:     limit,
	}, nil
}

func (s *templateService) Show(ctx context.Context, id string) (*store.Template, error) {
	return s.catalog.GetTemplate(ctx, id)
}

// Update applies the non-nil fields of req. Replacing the body without new
// variables re-derives them from its placeholders.
func (s *templateService) Update(ctx context.Context, req *dto.UpdateTemplateRequest) (*store.Template, error) {
	tpl, err := s.catalog.GetTemplate(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		tpl.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.DocType != nil {
		tpl.DocType = *req.DocType
	}
	if req.Jurisdiction != nil {
		tpl.Jurisdiction = *req.Jurisdiction
	}
	if req.SimilarityTags != nil {
		tpl.Tags = store.NormalizeTags(req.SimilarityTags)
	}
	if req.BodyMd != nil {
		tpl.Body = *req.BodyMd
	}

	switch {
	case req.Variables != nil:
		vars, err := toVariables(*req.Variables)
		if err != nil {
			return nil, err
		}
		tpl.Variables = vars
	case req.BodyMd != nil:
		tpl.Variables = extraction.VariablesFromBody(tpl.Body)
	}

	if tpl.Title == "" || strings.TrimSpace(tpl.Body) == "" {
		return nil, apperror.Invalid("title and body_md must not be empty")
	}
	if err := s.catalog.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	s.notifier.TemplateChanged(ctx, tpl)
	return tpl, nil
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	return s.catalog.DeleteTemplate(ctx, id)
}

func (s *templateService) Variables(ctx context.Context, id string) ([]store.Variable, error) {
	tpl, err := s.catalog.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl.Variables == nil {
		return []store.Variable{}, nil
	}
	return tpl.Variables, nil
}

func candidate(tpl *store.Template, confidence float64, justification string) dto.CandidateResponse {
	return dto.CandidateResponse{
		TemplateId:    tpl.ID,
		Title:         tpl.Title,
		Confidence:    confidence,
		Justification: justification,
	}
}

func (s *templateService) Match(ctx context.Context, query string) (*dto.TemplateMatchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Invalid("query is required")
	}

	res, err := s.matcher.Match(ctx, query)
	if err != nil {
		return nil, err
	}

	out := &dto.TemplateMatchResponse{
		Query:        query,
		Tier:         string(res.Tier),
		Alternatives: []dto.CandidateResponse{},
		WebResults:   res.WebResults,
	}
	switch res.Tier {
	case drafting.TierKeyword, drafting.TierOracle:
		best := candidate(res.Template, res.Confidence, res.Justification)
		out.BestMatch = &best
		for _, alt := range res.Alternatives {
			out.Alternatives = append(out.Alternatives, candidate(alt.Template, alt.Confidence, alt.Justification))
		}
	case drafting.TierEnumeration:
		for i := range res.Templates {
			out.Alternatives = append(out.Alternatives, candidate(&res.Templates[i], 0, ""))
		}
	}
	return out, nil
}

func (s *templateService) Export(ctx context.Context, id string) (string, error) {
	tpl, err := s.catalog.GetTemplate(ctx, id)
	if err != nil {
		return "", err
	}
	return export.Markdown(tpl)
}

func (s *templateService) Similar(ctx context.Context, id string, limit int) ([]dto.SimilarTemplateResponse, error) {
	if s.embeddingProvider == nil {
		return nil, fmt.Errorf("embedding provider not configured: %w", apperror.ErrOracleUnavailable)
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultSimilarLimit
	}

	tpl, err := s.catalog.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	vec, err := s.embeddingProvider.Embed(ctx, TemplateEmbeddingText(tpl), embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed template: %v: %w", err, apperror.ErrOracleUnavailable)
	}

	scored, err := s.catalog.SimilarTemplates(ctx, vec, limit, tpl.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SimilarTemplateResponse, len(scored))
	for i, st := range scored {
		out[i] = dto.SimilarTemplateResponse{
			TemplateId: st.Template.ID,
			Title:      st.Template.Title,
			DocType:    st.Template.DocType,
			Similarity: st.Similarity,
			CreatedAt:  st.Template.CreatedAt,
		}
	}
	return out, nil
}
