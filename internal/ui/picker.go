package ui

import (
	"fmt"
	"strings"

	"quaero/internal/api"
	"quaero/internal/catalog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// openPicker shows the model picker, or refetches the catalog if it is not
// loaded yet.
func (m *Model) openPicker() tea.Cmd {
	cat := m.deps.Resolver.Catalog()
	if cat == nil {
		m.toasts.ShowInfo("Loading models…")
		return fetchCatalog(m.deps.Context, m.deps.Resolver)
	}
	m.choices = catalog.Choices(cat, m.draft.Selection)
	m.pickerIdx = 0
	for i, c := range m.choices {
		if c.Selected {
			m.pickerIdx = i
			break
		}
	}
	m.pickerOpen = true
	return nil
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pickerIdx = max(m.pickerIdx-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.pickerIdx = min(m.pickerIdx+1, max(len(m.choices)-1, 0))
	case key.Matches(msg, m.keys.Submit):
		if m.pickerIdx < len(m.choices) {
			m.draft.Selection = m.choices[m.pickerIdx].Selection()
		}
		m.pickerOpen = false
	case msg.String() == "d":
		// Back to the provider default, keeping the provider.
		m.draft.Selection = catalog.Default(m.draft.Selection.ForceLocal())
		m.pickerOpen = false
	case key.Matches(msg, m.keys.Cancel), msg.String() == "q":
		m.pickerOpen = false
	}
	m.refresh()
	return nil
}

func (m Model) pickerView() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Select model"))
	b.WriteString("\n")

	cat := m.deps.Resolver.Catalog()
	var current api.Provider
	for i, c := range m.choices {
		if c.Provider != current {
			current = c.Provider
			b.WriteString("\n" + m.styles.Label.Render(providerTitle(c.Provider)) + "\n")
		}
		marker := "  "
		style := m.styles.ModalNormal
		if i == m.pickerIdx {
			marker = m.styles.Cursor.Render("› ")
			style = m.styles.ModalSelected
		}
		line := c.Model
		if c.Default {
			line += m.styles.ModalMuted.Render(" (default)")
		}
		if c.Selected {
			line += m.styles.Success.Render(" ✓")
		}
		b.WriteString(marker + style.Render(line) + "\n")
	}

	for _, p := range []api.Provider{api.ProviderRemote, api.ProviderLocal} {
		if status := catalog.ProviderStatus(cat, p); status != "" {
			b.WriteString("\n" + m.styles.ModalMuted.Render(fmt.Sprintf("%s: %s", providerTitle(p), status)))
		}
	}
	b.WriteString("\n\n" + m.styles.Dim.Render("enter select • d provider default • esc close"))
	return m.styles.ModalBorder.Render(b.String())
}

func providerTitle(p api.Provider) string {
	if p == api.ProviderLocal {
		return "Local"
	}
	return "Remote"
}
