package studio

import (
	"html"
	"strings"
	"sync"

	"quaero/internal/api"
	"quaero/internal/cache"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
)

// MarkupRenderer turns backend-formatted text into terminal output.
type MarkupRenderer interface {
	RenderMarkup(m api.Markup) (string, error)
}

// TextRenderer emits markup as plain text. With a sanitizer it strips unsafe
// HTML first; otherwise the backend's content is trusted verbatim.
type TextRenderer struct {
	Sanitizer *bluemonday.Policy
}

// NewTextRenderer returns a plain-text renderer, sanitizing with bluemonday's
// UGC policy when sanitize is set.
func NewTextRenderer(sanitize bool) TextRenderer {
	if sanitize {
		return TextRenderer{Sanitizer: bluemonday.UGCPolicy()}
	}
	return TextRenderer{}
}

// RenderMarkup implements MarkupRenderer.
func (r TextRenderer) RenderMarkup(m api.Markup) (string, error) {
	text := string(m)
	if r.Sanitizer != nil {
		// bluemonday emits HTML entities; a terminal wants the characters.
		text = html.UnescapeString(r.Sanitizer.Sanitize(text))
	}
	return strings.TrimSpace(text), nil
}

type markdownOptions struct {
	style    string
	wrap     int
	cache    *cache.RenderCache
	sanitize bool
}

// MarkdownOption configures a MarkdownRenderer.
type MarkdownOption func(*markdownOptions)

// WithStyle selects a glamour standard style ("dark", "light", "notty", ...).
func WithStyle(style string) MarkdownOption {
	return func(o *markdownOptions) {
		if style != "" {
			o.style = style
		}
	}
}

// WithWordWrap wraps output at width columns; 0 disables wrapping.
func WithWordWrap(width int) MarkdownOption {
	return func(o *markdownOptions) { o.wrap = width }
}

// WithCache reuses renderings across redraws.
func WithCache(c *cache.RenderCache) MarkdownOption {
	return func(o *markdownOptions) { o.cache = c }
}

// WithSanitizer passes markup through bluemonday's UGC policy before
// rendering instead of trusting the backend.
func WithSanitizer(on bool) MarkdownOption {
	return func(o *markdownOptions) { o.sanitize = on }
}

// MarkdownRenderer renders markup with glamour.
type MarkdownRenderer struct {
	opts   markdownOptions
	policy *bluemonday.Policy

	mu sync.Mutex
	tr *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer. The default style is "dark".
func NewMarkdownRenderer(opts ...MarkdownOption) (*MarkdownRenderer, error) {
	o := markdownOptions{style: "dark"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = cache.NewRenderCache(0, 0)
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(o.style),
		glamour.WithWordWrap(o.wrap),
	)
	if err != nil {
		return nil, err
	}

	r := &MarkdownRenderer{opts: o, tr: tr}
	if o.sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r, nil
}

// Sanitizing reports whether markup is sanitized before rendering.
func (r *MarkdownRenderer) Sanitizing() bool { return r.policy != nil }

// RenderMarkup implements MarkupRenderer.
func (r *MarkdownRenderer) RenderMarkup(m api.Markup) (string, error) {
	text := string(m)
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if r.policy != nil {
		text = r.policy.Sanitize(text)
	}

	key := cache.Key(r.opts.style, r.opts.wrap, text)
	return r.opts.cache.GetOrRender(key, func() (string, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		out, err := r.tr.Render(text)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	})
}
