// Package studio decodes and renders the structured documents the backend can
// return instead of a conversational answer.
package studio

import (
	"encoding/json"
	"errors"
	"fmt"

	"quaero/internal/api"
)

// Kind is the payload discriminator.
type Kind string

const (
	KindFAQ        Kind = "faq"
	KindStudyGuide Kind = "study_guide"
	KindBriefing   Kind = "briefing_doc"
	KindTimeline   Kind = "timeline"
	KindMindMap    Kind = "mind_map"
)

// Kinds lists every supported discriminator.
var Kinds = []Kind{KindFAQ, KindStudyGuide, KindBriefing, KindTimeline, KindMindMap}

// Title is the document heading for the kind.
func (k Kind) Title() string {
	switch k {
	case KindFAQ:
		return "Frequently Asked Questions"
	case KindBriefing:
		return "Briefing Document"
	default:
		return api.OutputType(k).Label()
	}
}

// ErrUnsupportedPayloadType matches any UnsupportedPayloadTypeError via errors.Is.
var ErrUnsupportedPayloadType = errors.New("unsupported payload type")

// UnsupportedPayloadTypeError is returned for an unknown or missing
// discriminator. It only concerns the one payload; the session stays usable.
type UnsupportedPayloadTypeError struct {
	Type string
}

func (e *UnsupportedPayloadTypeError) Error() string {
	if e.Type == "" {
		return "unsupported payload type: missing type"
	}
	return fmt.Sprintf("unsupported payload type %q", e.Type)
}

// Is reports whether target is ErrUnsupportedPayloadType.
func (e *UnsupportedPayloadTypeError) Is(target error) bool {
	return target == ErrUnsupportedPayloadType
}

// Payload is one of the five structured documents. The set is closed: only
// the variants in this package implement it.
type Payload interface {
	Kind() Kind
	Accept(v Visitor) error
	payload()
}

// Visitor handles each payload variant. Adding a variant breaks every
// Visitor at compile time.
type Visitor interface {
	VisitFAQ(p *FAQ) error
	VisitStudyGuide(p *StudyGuide) error
	VisitBriefing(p *Briefing) error
	VisitTimeline(p *Timeline) error
	VisitMindMap(p *MindMap) error
}

// FAQ is an ordered list of question/answer pairs.
type FAQ struct {
	Version string    `json:"version"`
	Items   []FAQItem `json:"items"`
}

type FAQItem struct {
	Question string     `json:"q"`
	Answer   api.Markup `json:"a_md"`
}

// StudyGuide is an ordered list of modules.
type StudyGuide struct {
	Version string        `json:"version"`
	Modules []StudyModule `json:"modules"`
}

type StudyModule struct {
	Title    string         `json:"title"`
	Notes    api.Markup     `json:"notes_md"`
	Quiz     []QuizItem     `json:"quiz"`
	Glossary []GlossaryItem `json:"glossary"`
}

type QuizItem struct {
	Question string     `json:"question"`
	Answer   api.Markup `json:"answer_md"`
}

type GlossaryItem struct {
	Term       string     `json:"term"`
	Definition api.Markup `json:"def_md"`
}

// Briefing is an ordered list of sections.
type Briefing struct {
	Version  string            `json:"version"`
	Sections []BriefingSection `json:"sections"`
}

// BriefingSection has a heading and an optional body and/or bullet list.
type BriefingSection struct {
	Heading string     `json:"heading"`
	Content api.Markup `json:"content_md,omitempty"`
	Items   []string   `json:"items,omitempty"`
}

// Timeline is an unordered flat list of dated events.
type Timeline struct {
	Version string          `json:"version"`
	Events  []TimelineEvent `json:"events"`
}

type TimelineEvent struct {
	Date       string     `json:"date"`
	Title      string     `json:"title"`
	Summary    api.Markup `json:"summary_md"`
	SourceURLs []string   `json:"source_urls"`
}

// MindMap is an ordered forest.
type MindMap struct {
	Version string        `json:"version"`
	Nodes   []MindMapNode `json:"nodes"`
}

// MindMapNode is assumed to form a tree; cycles are not checked.
type MindMapNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children"`
}

// Title is the label of the first root, or the kind title for an empty map.
func (m *MindMap) Title() string {
	if len(m.Nodes) > 0 && m.Nodes[0].Label != "" {
		return m.Nodes[0].Label
	}
	return KindMindMap.Title()
}

func (*FAQ) Kind() Kind        { return KindFAQ }
func (*StudyGuide) Kind() Kind { return KindStudyGuide }
func (*Briefing) Kind() Kind   { return KindBriefing }
func (*Timeline) Kind() Kind   { return KindTimeline }
func (*MindMap) Kind() Kind    { return KindMindMap }

func (p *FAQ) Accept(v Visitor) error        { return v.VisitFAQ(p) }
func (p *StudyGuide) Accept(v Visitor) error { return v.VisitStudyGuide(p) }
func (p *Briefing) Accept(v Visitor) error   { return v.VisitBriefing(p) }
func (p *Timeline) Accept(v Visitor) error   { return v.VisitTimeline(p) }
func (p *MindMap) Accept(v Visitor) error    { return v.VisitMindMap(p) }

func (*FAQ) payload()        {}
func (*StudyGuide) payload() {}
func (*Briefing) payload()   {}
func (*Timeline) payload()   {}
func (*MindMap) payload()    {}

// Decode parses a structured payload, selecting the variant by its exact
// "type" value.
func Decode(data []byte) (Payload, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var p Payload
	switch Kind(head.Type) {
	case KindFAQ:
		p = &FAQ{}
	case KindStudyGuide:
		p = &StudyGuide{}
	case KindBriefing:
		p = &Briefing{}
	case KindTimeline:
		p = &Timeline{}
	case KindMindMap:
		p = &MindMap{}
	default:
		return nil, &UnsupportedPayloadTypeError{Type: head.Type}
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", head.Type, err)
	}
	return p, nil
}
