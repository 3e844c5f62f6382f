package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lexi-drafting-be/pkg/websearch"
)

const (
	defaultBaseURL = "https://api.exa.ai"
	querySuffix    = " legal document template sample format"
)

type ExaProvider struct {
	apiKey     string
	baseURL    string
	numResults int
	maxChars   int
	client     *http.Client
}

var _ websearch.Provider = &ExaProvider{}

func NewExaProvider(apiKey string, numResults, maxChars int) *ExaProvider {
	if numResults <= 0 {
		numResults = 5
	}
	if maxChars <= 0 {
		maxChars = 2000
	}
	return &ExaProvider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		numResults: numResults,
		maxChars:   maxChars,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the provider at another host.
func (p *ExaProvider) WithBaseURL(baseURL string) *ExaProvider {
	p.baseURL = baseURL
	return p
}

type textOptions struct {
	MaxCharacters   int  `json:"maxCharacters"`
	IncludeHTMLTags bool `json:"includeHtmlTags"`
}

type searchRequest struct {
	Query      string `json:"query"`
	Type       string `json:"type"`
	NumResults int    `json:"numResults"`
	Contents   struct {
		Text textOptions `json:"text"`
	} `json:"contents"`
}

type searchResponse struct {
	Results []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		Text          string   `json:"text"`
		Score         *float64 `json:"score"`
		PublishedDate string   `json:"publishedDate"`
	} `json:"results"`
}

func (p *ExaProvider) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	reqBody := searchRequest{
		Query:      query + querySuffix,
		Type:       "auto",
		NumResults: p.numResults,
	}
	reqBody.Contents.Text = textOptions{MaxCharacters: p.maxChars}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var out searchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	results := make([]websearch.Result, 0, len(out.Results))
	for _, r := range out.Results {
		if r.Text == "" {
			continue
		}
		results = append(results, websearch.Result{
			Title:         r.Title,
			URL:           r.URL,
			Text:          r.Text,
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		})
	}
	return results, nil
}
