package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"quaero/internal/api"
	"quaero/internal/catalog"
	"quaero/internal/config"
	"quaero/internal/discover"
	"quaero/internal/query"
	"quaero/internal/studio"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchFunc func(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error)

func (f searchFunc) Search(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error) {
	return f(ctx, req)
}

type catalogFunc func(ctx context.Context) (*api.ModelCatalog, error)

func (f catalogFunc) Models(ctx context.Context) (*api.ModelCatalog, error) { return f(ctx) }

type discoverFunc func(ctx context.Context, req api.DiscoverRequest) (*api.DiscoverResponse, error)

func (f discoverFunc) Discover(ctx context.Context, req api.DiscoverRequest) (*api.DiscoverResponse, error) {
	return f(ctx, req)
}

type memClipboard struct{ text string }

func (c *memClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func testCatalog() *api.ModelCatalog {
	return &api.ModelCatalog{
		Remote: api.ProviderModels{Configured: "x-ai/grok-4-fast", Available: []string{"x-ai/grok-4-fast"}},
		Local:  api.ProviderModels{Configured: "qwen3:4b", Available: []string{"qwen3:4b", "llama3:8b"}},
	}
}

func answerResponse() *api.SearchResponse {
	return &api.SearchResponse{
		Answer:  "The moon drives the tides.",
		Bullets: []string{"Gravity", "Inertia"},
		Sources: []api.Source{{Title: "Tides", URL: "https://www.nasa.gov/tides", Snippet: "Ocean tides explained"}},
	}
}

type harness struct {
	deps Deps
	clip *memClipboard
}

func newHarness(search searchFunc, disc discoverFunc) *harness {
	cfg := config.DefaultConfig()
	clip := &memClipboard{}
	deps := Deps{
		Config:     cfg,
		Controller: query.NewController(search),
		Resolver:   catalog.NewResolver(catalogFunc(func(context.Context) (*api.ModelCatalog, error) { return testCatalog(), nil })),
		Discover:   discover.NewSession(disc, cfg.Discover, nil),
		Clipboard:  clip,
	}
	return &harness{deps: deps, clip: clip}
}

func staticSearch(resp *api.SearchResponse) searchFunc {
	return func(context.Context, api.SearchRequest) (*api.SearchResponse, error) { return resp, nil }
}

func noDiscover() discoverFunc {
	return func(context.Context, api.DiscoverRequest) (*api.DiscoverResponse, error) {
		return &api.DiscoverResponse{}, nil
	}
}

// run executes cmd once and feeds its message (or each message of a batch)
// back into the model. Commands returned by Update are not executed.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				m = run(t, m, c)
			}
		}
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitRendersAnswer(t *testing.T) {
	var got api.SearchRequest
	h := newHarness(func(_ context.Context, req api.SearchRequest) (*api.SearchResponse, error) {
		got = req
		return answerResponse(), nil
	}, noDiscover())
	m := New(h.deps)
	m.queryInput.SetValue("why tides?")
	m.includeInput.SetValue("nasa.gov, esa.int")

	cmd, err := m.startSearch()
	require.NoError(t, err)
	m = run(t, m, cmd)

	assert.Equal(t, "why tides?", got.Query)
	assert.Equal(t, []string{"nasa.gov", "esa.int"}, got.IncludeDomains)

	content := m.searchContent()
	assert.Contains(t, content, "The moon drives the tides.")
	assert.Contains(t, content, "• Gravity")
	assert.Contains(t, content, "[1] Tides")
	assert.Contains(t, content, "nasa.gov")
}

func TestEmptyQueryIsRejectedLocally(t *testing.T) {
	called := false
	h := newHarness(func(context.Context, api.SearchRequest) (*api.SearchResponse, error) {
		called = true
		return nil, nil
	}, noDiscover())
	m := New(h.deps)
	m.queryInput.SetValue("   ")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, called)
	assert.Equal(t, query.StateIdle, h.deps.Controller.Snapshot().State)
	assert.Equal(t, 1, m.toasts.Count())
}

func TestEscapeCancelsPendingSearch(t *testing.T) {
	h := newHarness(func(ctx context.Context, _ api.SearchRequest) (*api.SearchResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, noDiscover())
	m := New(h.deps)
	m.queryInput.SetValue("slow")

	cmd, err := m.startSearch()
	require.NoError(t, err)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, query.StateCancelled, h.deps.Controller.Snapshot().State)

	// The aborted round trip comes back late and is ignored.
	m = run(t, m, cmd)
	assert.Equal(t, query.StateCancelled, m.result.State)
	assert.Zero(t, m.toasts.Count(), "cancelling is never reported as an error")
	assert.Contains(t, m.searchContent(), "cancelled")
}

func TestStaleResultNeverOverwrites(t *testing.T) {
	h := newHarness(func(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error) {
		if req.Query == "first" {
			<-ctx.Done()
			return &api.SearchResponse{Answer: "stale"}, nil
		}
		return &api.SearchResponse{Answer: "fresh"}, nil
	}, noDiscover())
	m := New(h.deps)

	m.queryInput.SetValue("first")
	first, err := m.startSearch()
	require.NoError(t, err)
	m.queryInput.SetValue("second")
	second, err := m.startSearch()
	require.NoError(t, err)

	m = run(t, m, second)
	m = run(t, m, first)
	assert.Contains(t, m.searchContent(), "fresh")
	assert.NotContains(t, m.searchContent(), "stale")
}

func TestToggleLocalUpdatesLabel(t *testing.T) {
	h := newHarness(staticSearch(answerResponse()), noDiscover())
	_, err := h.deps.Resolver.Fetch(context.Background())
	require.NoError(t, err)
	m := New(h.deps)

	assert.Contains(t, m.statusBarView(), "x-ai/grok-4-fast")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.True(t, m.draft.Selection.ForceLocal())
	assert.Contains(t, m.statusBarView(), "qwen3:4b")
}

func TestPickerSelectsLocalModel(t *testing.T) {
	h := newHarness(staticSearch(answerResponse()), noDiscover())
	_, err := h.deps.Resolver.Fetch(context.Background())
	require.NoError(t, err)
	m := New(h.deps)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.pickerOpen)
	require.Len(t, m.choices, 3)
	assert.Contains(t, m.pickerView(), "llama3:8b")

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.pickerOpen)
	assert.True(t, m.draft.Selection.ForceLocal())
	assert.Equal(t, "llama3:8b", m.draft.Selection.Model())

	req, err := func() (api.SearchRequest, error) {
		m.draft.Query = "q"
		return m.draft.Build()
	}()
	require.NoError(t, err)
	assert.True(t, req.ForceLocal)
	assert.Equal(t, api.ProviderLocal, req.SelectedProvider)
}

func TestCopyRaisesAcknowledgement(t *testing.T) {
	h := newHarness(staticSearch(answerResponse()), noDiscover())
	m := New(h.deps)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, 1, m.toasts.Count(), "nothing to copy yet")

	m.queryInput.SetValue("tides")
	cmd, err := m.startSearch()
	require.NoError(t, err)
	m = run(t, m, cmd)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, h.clip.text, "Sources:\n1. Tides — https://www.nasa.gov/tides")
	assert.Contains(t, m.statusBarView(), "Copied")
}

func TestOptionKeysCycleDraft(t *testing.T) {
	m := New(newHarness(staticSearch(answerResponse()), noDiscover()).deps)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, api.TimeRangeYear, m.draft.TimeRange)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, api.OutputFAQ, m.draft.OutputType)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, query.ModeSummarize, m.draft.Mode)
	assert.Equal(t, query.ModeSummarize.Placeholder(), m.queryInput.Placeholder)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, api.UIModeFull, m.draft.UIMode)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.False(t, m.draft.Strict)
}

const mindMapJSON = `{"type":"mind_map","version":"1","nodes":[
	{"id":"r","label":"Root","children":[
		{"id":"a","label":"A","children":[{"id":"a1","label":"A1","children":[{"id":"x","label":"Deep","children":[]}]}]},
		{"id":"b","label":"B","children":[]}
	]}
]}`

func TestMindMapNavigation(t *testing.T) {
	resp := answerResponse()
	resp.Structured = []byte(mindMapJSON)
	h := newHarness(staticSearch(resp), noDiscover())
	m := New(h.deps)
	m.queryInput.SetValue("map it")

	cmd, err := m.startSearch()
	require.NoError(t, err)
	m = run(t, m, cmd)
	require.NotNil(t, m.mindMap)
	assert.Contains(t, m.searchContent(), "▸ A1")
	assert.NotContains(t, m.searchContent(), "Deep")

	for i := 0; i < 3; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	require.Equal(t, focusResults, m.focus)

	// Cursor to A1 and open it.
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Contains(t, m.searchContent(), "Deep")

	// Space on a leaf does nothing.
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Contains(t, m.searchContent(), "Deep")
}

func TestUnsupportedStructuredFallsBackToAnswer(t *testing.T) {
	resp := answerResponse()
	resp.Structured = []byte(`{"type":"podcast","version":"1"}`)
	h := newHarness(staticSearch(resp), noDiscover())
	m := New(h.deps)
	m.queryInput.SetValue("q")

	cmd, err := m.startSearch()
	require.NoError(t, err)
	m = run(t, m, cmd)

	assert.Equal(t, query.StateSucceeded, m.result.State)
	assert.Contains(t, m.searchContent(), "The moon drives the tides.")
	assert.Equal(t, 1, m.toasts.Count())
}

func TestFailureIsShown(t *testing.T) {
	h := newHarness(func(context.Context, api.SearchRequest) (*api.SearchResponse, error) {
		return nil, assert.AnError
	}, noDiscover())
	m := New(h.deps)
	m.queryInput.SetValue("q")

	cmd, err := m.startSearch()
	require.NoError(t, err)
	m = run(t, m, cmd)
	assert.Contains(t, m.searchContent(), assert.AnError.Error())
}

func TestDiscoverAddToSession(t *testing.T) {
	h := newHarness(staticSearch(answerResponse()), func(_ context.Context, req api.DiscoverRequest) (*api.DiscoverResponse, error) {
		return &api.DiscoverResponse{
			Recommendations: []api.Recommendation{{Title: "ESA", URL: "https://www.esa.int/Science", Why: "Primary agency", Score: 0.9}},
			QueriesPlanned:  []string{"esa missions"},
		}, nil
	})
	m := New(h.deps)
	m.includeInput.SetValue("nasa.gov")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.Equal(t, PaneDiscover, m.pane)
	m.topicInput.SetValue("space agencies")

	m = run(t, m, m.beginDiscover())
	assert.Equal(t, discover.StateSucceeded, m.discovered.State)
	assert.Contains(t, m.discoverContent(), "Planned search queries: esa missions")
	assert.Contains(t, m.discoverContent(), "Primary agency")

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, runes("a"))
	assert.Equal(t, "nasa.gov, esa.int", m.includeInput.Value())

	m = press(m, runes("a"))
	assert.Equal(t, "nasa.gov, esa.int", m.includeInput.Value())
}

func TestDiscoverWhilePending(t *testing.T) {
	block := make(chan struct{})
	h := newHarness(staticSearch(answerResponse()), func(context.Context, api.DiscoverRequest) (*api.DiscoverResponse, error) {
		<-block
		return &api.DiscoverResponse{}, nil
	})
	defer close(block)
	m := New(h.deps)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m.topicInput.SetValue("x")

	require.NotNil(t, m.beginDiscover())
	assert.Nil(t, m.beginDiscover())
	assert.Equal(t, 1, m.toasts.Count())
	assert.Contains(t, m.statusBarView(), "cannot be cancelled")
}

func TestNextOf(t *testing.T) {
	assert.Equal(t, 2, nextOf([]int{1, 2, 3}, 1))
	assert.Equal(t, 1, nextOf([]int{1, 2, 3}, 3))
	assert.Equal(t, 1, nextOf([]int{1, 2, 3}, 9))
}

func TestToastsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewToastManager()
	tm.now = func() time.Time { return now }

	tm.ShowInfo("one")
	tm.ShowError("two")
	assert.Equal(t, []string{"two", "one"}, tm.Messages())
	assert.Contains(t, tm.View(80), "two")

	now = now.Add(4 * time.Second)
	tm.Update()
	assert.Equal(t, []string{"two"}, tm.Messages())

	now = now.Add(2 * time.Second)
	tm.Update()
	assert.Zero(t, tm.Count())
	assert.Empty(t, tm.View(80))
}

func TestToastsAreCapped(t *testing.T) {
	tm := NewToastManager()
	for i := 0; i < 5; i++ {
		tm.ShowInfo(strings.Repeat("x", i+1))
	}
	assert.Equal(t, 3, tm.Count())
	assert.Equal(t, "xxxxx", tm.Messages()[0])
}

func TestRenderSources(t *testing.T) {
	published := "2023-05-06"
	out := renderSources(DefaultStyles(), []api.Source{
		{Title: "Tides", URL: "https://www.nasa.gov/tides", Published: &published, Snippet: "  Moon pull  "},
		{URL: "https://esa.int/x"},
	})
	assert.Contains(t, out, "[1] Tides")
	assert.Contains(t, out, "nasa.gov · 2023-05-06")
	assert.Contains(t, out, "Moon pull")
	assert.Contains(t, out, "[2] esa.int")
}

func TestRenderRecommendationsKeepsOrder(t *testing.T) {
	resp := &api.DiscoverResponse{
		Recommendations: []api.Recommendation{
			{Title: "Low", URL: "https://a.org", Score: 0.1},
			{Title: "High", URL: "https://b.org", Score: 0.9, Why: "Primary"},
		},
	}
	out := renderRecommendations(DefaultStyles(), studio.TextRenderer{}, resp, 1)
	assert.Less(t, strings.Index(out, "Low"), strings.Index(out, "High"))
	assert.Contains(t, out, "score 0.90")
	assert.Contains(t, out, "› ")
	assert.NotContains(t, out, "Planned search queries")

	empty := renderRecommendations(DefaultStyles(), studio.TextRenderer{}, &api.DiscoverResponse{}, -1)
	assert.Contains(t, empty, "No sources found.")
}
