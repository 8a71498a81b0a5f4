package query

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"quaero/internal/api"

	"github.com/atotto/clipboard"
)

// DefaultCopyAckWindow is how long "copied" stays visible.
const DefaultCopyAckWindow = 1400 * time.Millisecond

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// FormatForClipboard serializes the answer, its bullets and a numbered
// source list.
func FormatForClipboard(resp *api.SearchResponse) string {
	lines := []string{resp.Answer, ""}
	for _, b := range resp.Bullets {
		lines = append(lines, "• "+b)
	}
	lines = append(lines, "", "Sources:")
	for i, s := range resp.Sources {
		lines = append(lines, fmt.Sprintf("%d. %s — %s", i+1, s.Title, s.URL))
	}
	return strings.Join(lines, "\n")
}

// CopyAck is a flag that lowers itself a fixed window after the most recent
// Trigger. Triggering again restarts the window.
type CopyAck struct {
	window time.Duration

	mu     sync.Mutex
	active bool
	gen    uint64
	timer  *time.Timer
}

// NewCopyAck creates a lowered flag.
func NewCopyAck(window time.Duration) *CopyAck {
	if window <= 0 {
		window = DefaultCopyAckWindow
	}
	return &CopyAck{window: window}
}

// Trigger raises the flag and (re)starts its window.
func (a *CopyAck) Trigger() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.gen++
	gen := a.gen
	a.active = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.window, func() { a.expire(gen) })
}

func (a *CopyAck) expire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	// A later Trigger owns the flag now.
	if gen != a.gen {
		return
	}
	a.active = false
}

// Active reports whether the flag is raised.
func (a *CopyAck) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Window returns the configured window.
func (a *CopyAck) Window() time.Duration { return a.window }
