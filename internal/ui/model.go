// Package ui is the interactive terminal client: a search pane with
// structured-output rendering and a discover pane.
package ui

import (
	"context"
	"errors"
	"fmt"

	"quaero/internal/api"
	"quaero/internal/catalog"
	"quaero/internal/config"
	"quaero/internal/discover"
	"quaero/internal/logging"
	"quaero/internal/query"
	"quaero/internal/studio"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Pane is the top-level tab.
type Pane int

const (
	PaneSearch Pane = iota
	PaneDiscover
)

type focus int

const (
	focusQuery focus = iota // query input, or topic input on the discover pane
	focusInclude
	focusExclude
	focusResults
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Context    context.Context
	Config     *config.Config
	Controller *query.Controller
	Resolver   *catalog.Resolver
	Discover   *discover.Session
	Dispatcher *studio.Dispatcher
	Markup     studio.MarkupRenderer
	Clipboard  query.Clipboard
}

// Model is the root bubbletea model.
type Model struct {
	deps   Deps
	styles *Styles
	keys   keyMap
	help   help.Model

	pane  Pane
	focus focus

	queryInput   textinput.Model
	includeInput textinput.Model
	excludeInput textinput.Model
	topicInput   textinput.Model

	// draft is shared with the discover session, which adds domains to it.
	draft *query.Draft

	viewport viewport.Model
	spinner  spinner.Model
	toasts   *ToastManager

	result     query.Snapshot
	structured studio.Payload
	mindMap    *studio.MindMap
	tree       *studio.TreeState
	treeCursor int

	discovered discover.Snapshot
	recCursor  int

	pickerOpen bool
	choices    []catalog.Choice
	pickerIdx  int

	width  int
	height int
}

// New builds the model. Controller, Resolver and Discover are required.
func New(deps Deps) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Markup == nil {
		deps.Markup = studio.TextRenderer{}
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = studio.NewDispatcher(deps.Markup)
	}
	if deps.Clipboard == nil {
		deps.Clipboard = query.SystemClipboard{}
	}

	styles := DefaultStyles()
	draft := query.NewDraft(deps.Config.Search)
	if deps.Discover != nil {
		deps.Discover.SetSourceAdder(&draft)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	m := Model{
		deps:         deps,
		styles:       styles,
		keys:         defaultKeyMap(),
		help:         help.New(),
		queryInput:   newInput(draft.Mode.Placeholder()),
		includeInput: newInput("nasa.gov, esa.int"),
		excludeInput: newInput("reddit.com"),
		topicInput:   newInput("Describe your topic…"),
		draft:        &draft,
		viewport:     viewport.New(80, 20),
		spinner:      s,
		toasts:       NewToastManager(),
		tree:         studio.NewTreeState(),
		width:        80,
		height:       30,
	}
	m.viewport.MouseWheelEnabled = deps.Config.UI.Mouse
	m.queryInput.Focus()
	m.refresh()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 2000
	return ti
}

// Init starts the cursor blink, the model catalog fetch and the UI tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		fetchCatalog(m.deps.Context, m.deps.Resolver),
		TickCmd(tickInterval),
	)
}

// Update handles TUI events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case TickMsg:
		m.toasts.Update()
		m.resize()
		m.refresh()
		cmds = append(cmds, TickCmd(tickInterval))

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			cmds = append(cmds, cmd)
		}

	case catalogLoadedMsg:
		if msg.err != nil {
			m.toasts.ShowWarning("Model list unavailable: " + msg.err.Error())
		}
		m.refresh()

	case searchDoneMsg:
		m.applySearch(msg.out)

	case discoverDoneMsg:
		m.applyDiscover(msg.out)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		cmds = append(cmds, m.updateFocusedInput(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) busy() bool {
	return m.deps.Controller.Snapshot().State == query.StatePending ||
		(m.deps.Discover != nil && m.deps.Discover.Snapshot().State == discover.StatePending)
}

// handleKey reports whether the key was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit, true
	}
	if m.pickerOpen {
		return m.handlePickerKeys(msg), true
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.handleEscape()
		return nil, true
	case key.Matches(msg, m.keys.Regenerate):
		return m.regenerate(), true
	case key.Matches(msg, m.keys.Copy):
		m.copyAnswer()
		return nil, true
	case key.Matches(msg, m.keys.ToggleLocal):
		m.draft.Selection = m.draft.Selection.WithForceLocal(!m.draft.Selection.ForceLocal())
		m.refresh()
		return nil, true
	case key.Matches(msg, m.keys.Picker):
		return m.openPicker(), true
	case key.Matches(msg, m.keys.TimeRange):
		m.draft.TimeRange = nextOf(api.TimeRanges, m.draft.TimeRange)
		return nil, true
	case key.Matches(msg, m.keys.Output):
		m.draft.OutputType = nextOf(api.OutputTypes, m.draft.OutputType)
		return nil, true
	case key.Matches(msg, m.keys.Mode):
		m.draft.Mode = nextOf(query.Modes, m.draft.Mode)
		m.queryInput.Placeholder = m.draft.Mode.Placeholder()
		return nil, true
	case key.Matches(msg, m.keys.Verbosity):
		if m.draft.UIMode == api.UIModeFull {
			m.draft.UIMode = api.UIModeConcise
		} else {
			m.draft.UIMode = api.UIModeFull
		}
		return nil, true
	case key.Matches(msg, m.keys.Strict):
		m.draft.Strict = !m.draft.Strict
		return nil, true
	case key.Matches(msg, m.keys.Pane):
		m.switchPane()
		return nil, true
	case key.Matches(msg, m.keys.NextField):
		m.nextField()
		return nil, true
	case key.Matches(msg, m.keys.Submit) && m.focus != focusResults:
		if m.pane == PaneDiscover {
			return m.beginDiscover(), true
		}
		return m.submit(), true
	}

	if m.focus == focusResults {
		return m.handleResultKeys(msg), true
	}
	return nil, false
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.pane == PaneDiscover && m.focus == focusQuery:
		m.topicInput, cmd = m.topicInput.Update(msg)
	case m.pane == PaneSearch && m.focus == focusQuery:
		m.queryInput, cmd = m.queryInput.Update(msg)
	case m.pane == PaneSearch && m.focus == focusInclude:
		m.includeInput, cmd = m.includeInput.Update(msg)
	case m.pane == PaneSearch && m.focus == focusExclude:
		m.excludeInput, cmd = m.excludeInput.Update(msg)
	}
	return cmd
}

func (m *Model) handleEscape() {
	if m.deps.Controller.Snapshot().State == query.StatePending {
		if err := m.deps.Controller.Cancel(); err != nil {
			logging.Debug("cancel ignored", "error", err)
		}
		m.result = m.deps.Controller.Snapshot()
		m.refresh()
		return
	}
	if m.focus == focusResults {
		m.setFocus(focusQuery)
	}
}

// syncDraft copies the text inputs into the draft.
func (m *Model) syncDraft() {
	m.draft.Query = m.queryInput.Value()
	m.draft.IncludeDomains = m.includeInput.Value()
	m.draft.ExcludeDomains = m.excludeInput.Value()
}

// startSearch builds the request and submits it. The returned command runs
// the round trip.
func (m *Model) startSearch() (tea.Cmd, error) {
	m.syncDraft()
	req, err := m.draft.Build()
	if err != nil {
		return nil, err
	}
	call, err := m.deps.Controller.Submit(m.deps.Context, req)
	if err != nil {
		return nil, err
	}
	m.clearStructured()
	m.result = m.deps.Controller.Snapshot()
	m.refresh()
	return runSearch(call), nil
}

func (m *Model) submit() tea.Cmd {
	cmd, err := m.startSearch()
	if err != nil {
		m.toasts.ShowWarning(err.Error())
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) regenerate() tea.Cmd {
	call, err := m.deps.Controller.Regenerate(m.deps.Context)
	if err != nil {
		m.toasts.ShowInfo("Nothing to regenerate yet")
		return nil
	}
	m.clearStructured()
	m.result = m.deps.Controller.Snapshot()
	m.refresh()
	return tea.Batch(runSearch(call), m.spinner.Tick)
}

func (m *Model) copyAnswer() {
	err := m.deps.Controller.Copy(m.deps.Clipboard)
	switch {
	case errors.Is(err, query.ErrNoResult):
		m.toasts.ShowInfo("Nothing to copy yet")
	case err != nil:
		m.toasts.ShowError("Copy failed: " + err.Error())
	}
}

// applySearch takes a finished round trip. Stale outcomes are dropped here.
func (m *Model) applySearch(out query.Outcome) {
	if !out.Accepted {
		return
	}
	m.result = out.Snapshot
	m.clearStructured()

	resp := out.Snapshot.Response
	if out.Snapshot.State == query.StateSucceeded && resp != nil && resp.HasStructured() {
		p, err := studio.Decode(resp.Structured)
		if err != nil {
			logging.Warn("structured payload rejected", "error", err)
			m.toasts.ShowError(err.Error())
		} else {
			m.structured = p
			if mm, ok := p.(*studio.MindMap); ok {
				m.mindMap = mm
			}
		}
	}
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) clearStructured() {
	m.structured = nil
	m.mindMap = nil
	m.tree.Reset()
	m.treeCursor = 0
}

func (m *Model) beginDiscover() tea.Cmd {
	if m.deps.Discover == nil {
		return nil
	}
	call, err := m.deps.Discover.Begin(m.deps.Context, m.topicInput.Value())
	switch {
	case errors.Is(err, discover.ErrInFlight):
		m.toasts.ShowWarning("Discover already running (it cannot be cancelled)")
		return nil
	case err != nil:
		m.toasts.ShowWarning(err.Error())
		return nil
	}
	m.discovered = m.deps.Discover.Snapshot()
	m.recCursor = 0
	m.refresh()
	return tea.Batch(runDiscover(call), m.spinner.Tick)
}

func (m *Model) applyDiscover(out discover.Outcome) {
	m.discovered = out.Snapshot
	m.recCursor = 0
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) recommendations() []api.Recommendation {
	if m.discovered.Response == nil {
		return nil
	}
	return m.discovered.Response.Recommendations
}

func (m *Model) addSelectedSource() {
	recs := m.recommendations()
	if m.recCursor >= len(recs) {
		return
	}
	rec := recs[m.recCursor]

	m.syncDraft()
	err := m.deps.Discover.AddToSession(rec.URL)
	switch {
	case errors.Is(err, discover.ErrAlreadyInScope):
		m.toasts.ShowInfo(rec.Domain() + " is already in scope")
	case err != nil:
		m.toasts.ShowError(err.Error())
	default:
		m.includeInput.SetValue(m.draft.IncludeDomains)
		m.toasts.ShowSuccess(fmt.Sprintf("Added %s to search scope", rec.Domain()))
	}
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) tea.Cmd {
	if m.pane == PaneDiscover {
		recs := m.recommendations()
		switch {
		case key.Matches(msg, m.keys.Up):
			m.recCursor = max(m.recCursor-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.recCursor = min(m.recCursor+1, max(len(recs)-1, 0))
		case key.Matches(msg, m.keys.AddSource):
			m.addSelectedSource()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}
		m.refresh()
		return nil
	}

	if m.mindMap != nil {
		lines := studio.VisibleNodes(m.mindMap.Nodes, m.tree)
		switch {
		case key.Matches(msg, m.keys.Up):
			m.treeCursor = max(m.treeCursor-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.treeCursor = min(m.treeCursor+1, max(len(lines)-1, 0))
		case key.Matches(msg, m.keys.Toggle):
			if m.treeCursor < len(lines) && !lines[m.treeCursor].Leaf {
				m.tree.Toggle(lines[m.treeCursor].Key)
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}
		m.refresh()
		return nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) switchPane() {
	if m.pane == PaneSearch {
		m.pane = PaneDiscover
	} else {
		m.pane = PaneSearch
	}
	m.setFocus(focusQuery)
	m.resize()
	m.refresh()
}

func (m *Model) nextField() {
	order := []focus{focusQuery, focusInclude, focusExclude, focusResults}
	if m.pane == PaneDiscover {
		order = []focus{focusQuery, focusResults}
	}
	m.setFocus(nextOf(order, m.focus))
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.queryInput.Blur()
	m.includeInput.Blur()
	m.excludeInput.Blur()
	m.topicInput.Blur()

	switch {
	case f == focusQuery && m.pane == PaneDiscover:
		m.topicInput.Focus()
	case f == focusQuery:
		m.queryInput.Focus()
	case f == focusInclude:
		m.includeInput.Focus()
	case f == focusExclude:
		m.excludeInput.Focus()
	}
	m.refresh()
}

// nextOf returns the element after cur in xs, wrapping around.
func nextOf[T comparable](xs []T, cur T) T {
	for i, x := range xs {
		if x == cur {
			return xs[(i+1)%len(xs)]
		}
	}
	return xs[0]
}
