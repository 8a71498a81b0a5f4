package ui

import (
	"context"

	"quaero/internal/api"
	"quaero/internal/catalog"
	"quaero/internal/discover"
	"quaero/internal/query"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages delivered back to Update when a backend round trip finishes.
type (
	searchDoneMsg struct {
		out query.Outcome
	}
	discoverDoneMsg struct {
		out discover.Outcome
	}
	catalogLoadedMsg struct {
		cat *api.ModelCatalog
		err error
	}
)

func runSearch(call *query.Call) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{out: call.Do()}
	}
}

func runDiscover(call *discover.Call) tea.Cmd {
	return func() tea.Msg {
		return discoverDoneMsg{out: call.Do()}
	}
}

func fetchCatalog(ctx context.Context, r *catalog.Resolver) tea.Cmd {
	return func() tea.Msg {
		cat, err := r.Fetch(ctx)
		return catalogLoadedMsg{cat: cat, err: err}
	}
}
