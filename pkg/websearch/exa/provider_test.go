package exa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExaProvider_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "exa-key", r.Header.Get("x-api-key"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "insurance notice legal document template sample format", req.Query)
		assert.Equal(t, 5, req.NumResults)
		assert.Equal(t, 2000, req.Contents.Text.MaxCharacters)

		_, _ = w.Write([]byte(`{"results":[
			{"title":"Notice A","url":"https://a.example","text":"Dear Sir, ..."},
			{"title":"Empty","url":"https://b.example","text":""}
		]}`))
	}))
	defer srv.Close()

	p := NewExaProvider("exa-key", 0, 0).WithBaseURL(srv.URL)
	results, err := p.Search(context.Background(), "insurance notice")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Notice A", results[0].Title)
	assert.Equal(t, "https://a.example", results[0].URL)
}

func TestExaProvider_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewExaProvider("bad", 3, 100).WithBaseURL(srv.URL).Search(context.Background(), "x")
	assert.ErrorContains(t, err, "status 401")
}
