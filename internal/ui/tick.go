package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval drives toast expiry and the copy acknowledgement redraw.
const tickInterval = 250 * time.Millisecond

// TickMsg is sent periodically to trigger UI updates.
type TickMsg time.Time

// TickCmd returns a command that sends TickMsg after interval.
func TickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
