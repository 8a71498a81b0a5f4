package ui

import (
	"fmt"
	"strings"

	"quaero/internal/api"
	"quaero/internal/catalog"
	"quaero/internal/discover"
	"quaero/internal/query"
	"quaero/internal/studio"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// View renders the whole screen.
func (m Model) View() string {
	sections := []string{m.tabsView()}
	if m.pane == PaneSearch {
		sections = append(sections, m.searchFormView())
	} else {
		sections = append(sections, m.discoverFormView())
	}

	if m.pickerOpen {
		sections = append(sections, m.pickerView())
	} else {
		sections = append(sections, m.viewport.View())
	}

	if toasts := m.toasts.View(m.width); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.statusBarView(), m.help.ShortHelpView(m.keys.ShortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) tabsView() string {
	tab := func(label string, p Pane) string {
		if m.pane == p {
			return m.styles.ActiveTab.Render(label)
		}
		return m.styles.Tab.Render(label)
	}
	return m.styles.Header.Render("quaero ") + tab("Search", PaneSearch) + tab("Discover", PaneDiscover)
}

func (m Model) inputBox(ti string, focused bool, width int) string {
	style := m.styles.Input
	if focused {
		style = m.styles.InputFocused
	}
	return style.Width(max(width-4, 10)).Render(ti)
}

func (m Model) searchFormView() string {
	var chips []string
	for _, mode := range query.Modes {
		if mode == m.draft.Mode {
			chips = append(chips, m.styles.ChipOn.Render(mode.String()))
		} else {
			chips = append(chips, m.styles.Chip.Render(mode.String()))
		}
	}

	include := m.styles.Label.Render("include ") + m.includeInput.View()
	exclude := m.styles.Label.Render("exclude ") + m.excludeInput.View()

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(chips, ""),
		m.inputBox(m.queryInput.View(), m.focus == focusQuery, m.width),
		fieldLine(include, m.focus == focusInclude, m.styles),
		fieldLine(exclude, m.focus == focusExclude, m.styles),
		m.optionsView(),
	)
}

func fieldLine(s string, focused bool, styles *Styles) string {
	if focused {
		return styles.Cursor.Render("› ") + s
	}
	return "  " + s
}

func (m Model) optionsView() string {
	d := m.draft
	strict := "off"
	if d.Strict {
		strict = "on"
	}
	segs := []string{
		m.segment("output", d.OutputType.Label()),
		m.segment("time", d.TimeRange.Label()),
		m.segment("strict", strict),
		m.segment("detail", string(d.UIMode)),
		m.segment("results", fmt.Sprint(d.MaxResults)),
	}
	return strings.Join(segs, m.styles.Dim.Render(" · "))
}

func (m Model) segment(name, value string) string {
	return m.styles.StatusSegment.Render(name+" ") + m.styles.StatusValue.Render(value)
}

func (m Model) discoverFormView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Label.Render("Find authoritative sources and research material for a topic"),
		m.inputBox(m.topicInput.View(), m.focus == focusQuery, m.width),
	)
}

func (m Model) statusBarView() string {
	sel := m.draft.Selection
	provider := "remote"
	if sel.ForceLocal() {
		provider = "local"
	}
	segs := []string{
		m.segment("model", catalog.CurrentModelLabel(sel, m.deps.Resolver.Catalog())),
		m.segment("provider", provider),
	}

	snap := m.deps.Controller.Snapshot()
	if snap.State == query.StatePending {
		segs = append(segs, m.spinner.View()+" searching")
	} else if snap.State != query.StateIdle {
		segs = append(segs, m.styles.Dim.Render(snap.State.String()))
	}
	if m.deps.Discover != nil && m.deps.Discover.Snapshot().State == discover.StatePending {
		segs = append(segs, m.styles.Dim.Render("discovering (cannot be cancelled)"))
	}
	if m.deps.Controller.Copied() {
		segs = append(segs, m.styles.Success.Render("Copied ✓"))
	}
	return m.styles.StatusBar.Render(strings.Join(segs, "  "))
}

// resize lays out the viewport under the form.
func (m *Model) resize() {
	chrome := 11
	if m.pane == PaneDiscover {
		chrome = 7
	}
	chrome += m.toasts.Count()

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-chrome, 3)
	for _, ti := range []*textinput.Model{&m.queryInput, &m.topicInput} {
		ti.Width = max(m.width-8, 10)
	}
	for _, ti := range []*textinput.Model{&m.includeInput, &m.excludeInput} {
		ti.Width = max(m.width-14, 10)
	}
}

// refresh re-renders the viewport content from the current state.
func (m *Model) refresh() {
	if m.pane == PaneDiscover {
		m.viewport.SetContent(m.discoverContent())
		return
	}
	m.viewport.SetContent(m.searchContent())
}

func (m *Model) searchContent() string {
	snap := m.result
	switch snap.State {
	case query.StatePending:
		return m.spinner.View() + " Searching…"
	case query.StateCancelled:
		return m.styles.Dim.Render("Search cancelled.")
	case query.StateFailed:
		return m.styles.FormatError(snap.Failure)
	case query.StateSucceeded:
	default:
		return m.styles.Dim.Render("Ask a question to get started.")
	}

	resp := snap.Response
	var b strings.Builder
	if m.deps.Config.UI.ShowDiagnostics {
		b.WriteString(m.styles.Diagnostic.Render(resp.Diagnostics.Summary()) + "\n\n")
	}

	if m.structured != nil {
		b.WriteString(m.structuredContent())
	} else {
		b.WriteString(renderAnswer(m.styles, m.deps.Markup, resp))
	}
	if len(resp.Sources) > 0 {
		b.WriteString("\n\n" + renderSources(m.styles, resp.Sources))
	}
	return b.String()
}

func (m *Model) structuredContent() string {
	var (
		out string
		err error
	)
	if m.mindMap != nil {
		cursor := -1
		if m.focus == focusResults {
			cursor = m.treeCursor
		}
		out, err = m.deps.Dispatcher.RenderMindMap(m.mindMap, m.tree, cursor)
	} else {
		out, err = m.deps.Dispatcher.Render(m.structured)
	}
	if err != nil {
		return m.styles.FormatError(err.Error())
	}
	return out
}

func (m *Model) discoverContent() string {
	snap := m.discovered
	switch snap.State {
	case discover.StatePending:
		return m.spinner.View() + " Discovering sources for " + snap.Topic + "…"
	case discover.StateFailed:
		return m.styles.FormatError(snap.Failure)
	case discover.StateSucceeded:
	default:
		return m.styles.Dim.Render("Describe a topic to find sources. Press a on a result to add it to the search scope.")
	}
	cursor := -1
	if m.focus == focusResults {
		cursor = m.recCursor
	}
	return renderRecommendations(m.styles, m.deps.Markup, snap.Response, cursor)
}

// renderAnswer renders the conversational answer and its bullets.
func renderAnswer(styles *Styles, markup studio.MarkupRenderer, resp *api.SearchResponse) string {
	var b strings.Builder
	answer, err := markup.RenderMarkup(api.Markup(resp.Answer))
	if err != nil {
		answer = resp.Answer
	}
	b.WriteString(styles.Answer.Render(answer))
	if len(resp.Bullets) > 0 {
		b.WriteString("\n")
		for _, bullet := range resp.Bullets {
			b.WriteString("\n" + styles.Bullet.Render("• ") + bullet)
		}
	}
	return b.String()
}

// renderSources renders the numbered source list.
func renderSources(styles *Styles, sources []api.Source) string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("Sources"))
	for i, s := range sources {
		b.WriteString(fmt.Sprintf("\n%s %s", styles.SourceNum.Render(fmt.Sprintf("[%d]", i+1)), s.DisplayTitle()))
		meta := []string{s.Domain()}
		if date := api.FormatPublished(s.Published); date != "" {
			meta = append(meta, date)
		}
		b.WriteString("\n    " + styles.SourceLink.Render(strings.Join(meta, " · ")))
		if snippet := strings.TrimSpace(s.Snippet); snippet != "" {
			b.WriteString("\n    " + styles.Snippet.Render(snippet))
		}
	}
	return b.String()
}

// renderRecommendations renders discover results in response order.
func renderRecommendations(styles *Styles, markup studio.MarkupRenderer, resp *api.DiscoverResponse, cursor int) string {
	var b strings.Builder
	if planned := discover.PlannedQueries(resp); planned != "" {
		b.WriteString(styles.Dim.Render("Planned search queries: "+planned) + "\n")
	}
	if len(resp.Recommendations) == 0 {
		b.WriteString("\n" + styles.Dim.Render("No sources found."))
		return b.String()
	}
	for i, rec := range resp.Recommendations {
		marker := "  "
		if i == cursor {
			marker = styles.Cursor.Render("› ")
		}
		b.WriteString(fmt.Sprintf("\n%s%s %s", marker, styles.SourceNum.Render(fmt.Sprintf("[%d]", i+1)), rec.Title))

		meta := []string{rec.Domain()}
		if date := api.FormatPublished(rec.Published); date != "" {
			meta = append(meta, date)
		}
		meta = append(meta, fmt.Sprintf("score %.2f", rec.Score))
		b.WriteString("\n    " + styles.SourceLink.Render(strings.Join(meta, " · ")))

		for _, field := range []api.Markup{rec.Why, rec.Summary} {
			out, err := markup.RenderMarkup(field)
			if err != nil || out == "" {
				continue
			}
			for _, line := range strings.Split(out, "\n") {
				b.WriteString("\n    " + line)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
