package studio

import (
	"errors"
	"fmt"
	"strings"

	"quaero/internal/api"
	"quaero/internal/logging"
)

// Dispatcher routes a payload to the renderer for its kind.
type Dispatcher struct {
	markup MarkupRenderer
	order  TimelineOrder
	styles styles
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTimelineOrder sets the year bucket order for timelines.
func WithTimelineOrder(order TimelineOrder) DispatcherOption {
	return func(d *Dispatcher) { d.order = order }
}

// NewDispatcher creates a Dispatcher that renders formatted fields with
// markup. A nil markup renderer emits them as plain text.
func NewDispatcher(markup MarkupRenderer, opts ...DispatcherOption) *Dispatcher {
	if markup == nil {
		markup = TextRenderer{}
	}
	d := &Dispatcher{
		markup: markup,
		order:  OrderAppearance,
		styles: defaultStyles(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Render produces the document for p. Mind maps use default expansion.
func (d *Dispatcher) Render(p Payload) (string, error) {
	if p == nil {
		return "", &UnsupportedPayloadTypeError{}
	}
	w := &writer{d: d, state: NewTreeState(), cursor: -1}
	if err := p.Accept(w); err != nil {
		return "", fmt.Errorf("render %s: %w", p.Kind(), err)
	}
	return strings.TrimRight(w.b.String(), "\n"), nil
}

// RenderRaw decodes and renders a payload. An unsupported type comes back as
// an error the caller can show next to the other results.
func (d *Dispatcher) RenderRaw(data []byte) (string, error) {
	p, err := Decode(data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedPayloadType) {
			logging.Warn("unsupported structured payload", "error", err)
		}
		return "", err
	}
	return d.Render(p)
}

// RenderMindMap renders m with explicit expansion state and highlights the
// visible row at cursor (-1 for none).
func (d *Dispatcher) RenderMindMap(m *MindMap, state *TreeState, cursor int) (string, error) {
	w := &writer{d: d, state: state, cursor: cursor}
	if err := w.VisitMindMap(m); err != nil {
		return "", err
	}
	return strings.TrimRight(w.b.String(), "\n"), nil
}

// writer is the Visitor that renders one payload into b.
type writer struct {
	d      *Dispatcher
	b      strings.Builder
	state  *TreeState
	cursor int
}

func (w *writer) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) blank() { w.b.WriteByte('\n') }

func (w *writer) markup(m api.Markup, indent int) error {
	out, err := w.d.markup.RenderMarkup(m)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	pad := strings.Repeat(" ", indent)
	for _, l := range strings.Split(out, "\n") {
		w.line(pad + l)
	}
	return nil
}

func (w *writer) title(k Kind) {
	w.line(w.d.styles.title.Render(k.Title()))
	w.blank()
}

func (w *writer) VisitFAQ(p *FAQ) error {
	w.title(KindFAQ)
	h := w.d.styles.heading[KindFAQ]
	for _, item := range p.Items {
		w.line(h.Render("Q: " + item.Question))
		if err := w.markup(item.Answer, 2); err != nil {
			return err
		}
		w.blank()
	}
	return nil
}

func (w *writer) VisitStudyGuide(p *StudyGuide) error {
	w.title(KindStudyGuide)
	h := w.d.styles.heading[KindStudyGuide]
	sec := w.d.styles.section
	for i, mod := range p.Modules {
		w.line(h.Render(fmt.Sprintf("Module %d: %s", i+1, mod.Title)))
		w.blank()

		w.line(sec.Render("Notes"))
		if err := w.markup(mod.Notes, 2); err != nil {
			return err
		}
		w.blank()

		w.line(sec.Render("Quiz"))
		for j, q := range mod.Quiz {
			w.line(fmt.Sprintf("  Q%d: %s", j+1, q.Question))
			if err := w.markup(q.Answer, 6); err != nil {
				return err
			}
		}
		w.blank()

		w.line(sec.Render("Glossary"))
		for _, g := range mod.Glossary {
			w.line("  " + sec.Render(g.Term))
			if err := w.markup(g.Definition, 4); err != nil {
				return err
			}
		}
		w.blank()
	}
	return nil
}

func (w *writer) VisitBriefing(p *Briefing) error {
	w.title(KindBriefing)
	h := w.d.styles.heading[KindBriefing]
	for _, s := range p.Sections {
		w.line(h.Render(s.Heading))
		if err := w.markup(s.Content, 2); err != nil {
			return err
		}
		for _, item := range s.Items {
			w.line("  • " + item)
		}
		w.blank()
	}
	return nil
}

func (w *writer) VisitTimeline(p *Timeline) error {
	w.title(KindTimeline)
	h := w.d.styles.heading[KindTimeline]
	muted := w.d.styles.muted
	for _, bucket := range GroupByYear(p.Events, w.d.order) {
		w.line(h.Render(bucket.Year))
		for _, ev := range bucket.Events {
			w.line(fmt.Sprintf("  %s - %s", h.UnsetBold().Render(ev.Date), ev.Title))
			if err := w.markup(ev.Summary, 4); err != nil {
				return err
			}
			for i, u := range ev.SourceURLs {
				w.line(muted.Render(fmt.Sprintf("    Source %d: %s", i+1, u)))
			}
		}
		w.blank()
	}
	return nil
}

func (w *writer) VisitMindMap(p *MindMap) error {
	w.title(KindMindMap)
	w.line(w.d.styles.heading[KindMindMap].Render(p.Title()))
	for i, l := range VisibleNodes(p.Nodes, w.state) {
		row := w.d.treeRow(l)
		if i == w.cursor {
			row = w.d.styles.selected.Render(row)
		}
		w.line(row)
	}
	return nil
}

// treeRow draws one mind-map row. Leaves never get an expand glyph.
func (d *Dispatcher) treeRow(l TreeLine) string {
	indent := strings.Repeat("  ", l.Depth)
	if l.Leaf {
		return indent + d.styles.leaf.Render("•") + " " + l.Label
	}
	glyph := "▸"
	if l.Expanded {
		glyph = "▾"
	}
	return fmt.Sprintf("%s%s %s %s", indent, d.styles.branch.Render(glyph), l.Label,
		d.styles.muted.Render(fmt.Sprintf("(%d)", l.Children)))
}
