package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding of the TUI.
type keyMap struct {
	Submit      key.Binding
	Cancel      key.Binding
	Regenerate  key.Binding
	Copy        key.Binding
	ToggleLocal key.Binding
	Picker      key.Binding
	TimeRange   key.Binding
	Output      key.Binding
	Mode        key.Binding
	Verbosity   key.Binding
	Strict      key.Binding
	NextField   key.Binding
	Pane        key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	AddSource   key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Regenerate:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "regenerate")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "copy")),
		ToggleLocal: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^l", "local")),
		Picker:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "model")),
		TimeRange:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "time range")),
		Output:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "output")),
		Mode:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^e", "mode")),
		Verbosity:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^f", "concise/full")),
		Strict:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^g", "strict")),
		NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Pane:        key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^d", "discover/search")),
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "expand")),
		AddSource:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to session")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Regenerate, k.Copy, k.Picker, k.Output, k.Pane, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.Regenerate, k.Copy},
		{k.ToggleLocal, k.Picker, k.TimeRange, k.Output, k.Mode, k.Verbosity, k.Strict},
		{k.NextField, k.Pane, k.Toggle, k.AddSource, k.Quit},
	}
}
