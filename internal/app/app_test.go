package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quaero/internal/api"
	"quaero/internal/config"
	"quaero/internal/query"
	"quaero/internal/studio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClipboard struct{ text string }

func (c *memClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", func(w http.ResponseWriter, r *http.Request) {
		var req api.SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Query == "boom" {
			http.Error(w, "upstream failed", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(api.SearchResponse{
			Answer:  "answer to " + req.Query,
			Sources: []api.Source{{Title: "NASA", URL: "https://nasa.gov/x"}},
		})
	})
	mux.HandleFunc("GET /api/models", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"remote":{"configured":"m1","available":["m1"]},"local":{"available":[]}}`))
	})
	mux.HandleFunc("POST /api/discover", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"recommendations":[{"title":"ESA","url":"https://esa.int","why_md":"agency","summary_md":"","score":0.8}],"queries_planned":["esa"]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.API.CatalogRetries = 0
	cfg.Studio.MarkdownStyle = "notty"
	return cfg
}

func TestBuildHeadless(t *testing.T) {
	a, err := NewBuilder(testConfig("http://localhost:1")).Headless().Build()
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.tui)
	assert.IsType(t, &studio.MarkdownRenderer{}, a.Markup())
	assert.NotNil(t, a.Dispatcher())
	assert.Error(t, a.Run())
}

func TestBuildWithUI(t *testing.T) {
	a, err := NewBuilder(testConfig("http://localhost:1")).WithClipboard(&memClipboard{}).Build()
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.tui)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("not a url")
	b := NewBuilder(cfg).Headless()
	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
	assert.ErrorIs(t, b.ctx.Err(), context.Canceled, "a failed build releases its context")
}

func TestBuildRejectsUnknownMarkdownStyle(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	cfg.Studio.MarkdownStyle = "solarized"
	_, err := NewBuilder(cfg).Headless().Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "studio.markdown_style")
}

func TestTextFallbackKeepsSanitizing(t *testing.T) {
	const hostile = `<img src=x onerror=alert(1)>hello<script>steal()</script> AT&T`

	cfg := testConfig("http://localhost:1")
	cfg.Studio.MarkdownStyle = "solarized"
	cfg.Studio.SanitizeMarkup = true
	b := NewBuilder(cfg)
	defer b.cancel()

	require.Error(t, b.initStudio())
	require.IsType(t, studio.TextRenderer{}, b.markup)
	out, err := b.markup.RenderMarkup(hostile)
	require.NoError(t, err)
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "steal")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "AT&T")

	cfg.Studio.SanitizeMarkup = false
	require.Error(t, b.initStudio())
	out, err = b.markup.RenderMarkup(hostile)
	require.NoError(t, err)
	assert.Contains(t, out, "<script>", "unsanitized markup is trusted verbatim")
}

func TestAskAndCopy(t *testing.T) {
	srv := newBackend(t)
	clip := &memClipboard{}
	a, err := NewBuilder(testConfig(srv.URL)).Headless().WithClipboard(clip).Build()
	require.NoError(t, err)
	defer a.Close()

	draft := a.NewDraft()
	draft.Query = "tides"
	req, err := draft.Build()
	require.NoError(t, err)

	resp, err := a.Ask(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "answer to tides", resp.Answer)

	require.NoError(t, a.Copy())
	assert.Contains(t, clip.text, "answer to tides")
	assert.Contains(t, clip.text, "1. NASA — https://nasa.gov/x")
}

func TestAskFailure(t *testing.T) {
	srv := newBackend(t)
	a, err := NewBuilder(testConfig(srv.URL)).Headless().Build()
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Ask(context.Background(), api.SearchRequest{Query: "boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")

	_, err = a.Ask(context.Background(), api.SearchRequest{Query: " "})
	assert.ErrorIs(t, err, query.ErrEmptyQuery)
}

func TestModelsAndDiscover(t *testing.T) {
	srv := newBackend(t)
	a, err := NewBuilder(testConfig(srv.URL)).Headless().Build()
	require.NoError(t, err)
	defer a.Close()

	cat, err := a.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m1", cat.Remote.Configured)
	assert.Same(t, cat, a.Resolver().Catalog())

	resp, err := a.Discover(context.Background(), "space agencies")
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "esa.int", resp.Recommendations[0].Domain())
}

func TestWithRecovery(t *testing.T) {
	err := withRecovery("op", func() error { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in op: bad")

	sentinel := errors.New("plain")
	assert.Same(t, sentinel, withRecovery("op", func() error { return sentinel }))
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "quaero", userAgent(""))
	assert.Equal(t, "quaero/1.2.0", userAgent("1.2.0"))
}
