package ui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is a short-lived notification shown above the status bar.
type Toast struct {
	ID        int
	Type      ToastType
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// IsExpired returns true if the toast should be removed.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) > t.Duration
}

// ToastManager holds the active toasts, newest first.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	maxToasts int
	nextID    int
	now       func() time.Time
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{maxToasts: 3, nextID: 1, now: time.Now}
}

// Show displays a new toast.
func (m *ToastManager) Show(t ToastType, message string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := Toast{ID: m.nextID, Type: t, Message: message, Duration: d, CreatedAt: m.now()}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
}

func (m *ToastManager) ShowSuccess(message string) { m.Show(ToastSuccess, message, 3*time.Second) }
func (m *ToastManager) ShowInfo(message string)    { m.Show(ToastInfo, message, 3*time.Second) }
func (m *ToastManager) ShowWarning(message string) { m.Show(ToastWarning, message, 4*time.Second) }
func (m *ToastManager) ShowError(message string)   { m.Show(ToastError, message, 5*time.Second) }

// Update removes expired toasts.
func (m *ToastManager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
}

// Messages returns the active messages, newest first.
func (m *ToastManager) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		out[i] = t.Message
	}
	return out
}

// Count returns the number of active toasts.
func (m *ToastManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// View renders one line per toast.
func (m *ToastManager) View(width int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.toasts) == 0 {
		return ""
	}
	now := m.now()
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, renderToast(t, width, now))
	}
	return strings.Join(lines, "\n")
}

func renderToast(t Toast, width int, now time.Time) string {
	var icon string
	var color lipgloss.Color
	switch t.Type {
	case ToastSuccess:
		icon, color = "✓", ColorSuccess
	case ToastError:
		icon, color = "✗", ColorError
	case ToastWarning:
		icon, color = "⚠", ColorWarning
	default:
		icon, color = "ℹ", ColorInfo
	}
	// Fade when nearing expiration.
	if t.Duration-now.Sub(t.CreatedAt) < 500*time.Millisecond {
		color = ColorDim
	}

	msg := t.Message
	maxLen := max(width-5, 20)
	if r := []rune(msg); len(r) > maxLen {
		msg = string(r[:maxLen-1]) + "…"
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon) + " " +
		lipgloss.NewStyle().Foreground(ColorMuted).Render(msg)
}
