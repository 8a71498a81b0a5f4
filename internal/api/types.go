// Package api holds the wire types exchanged with the research backend.
package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeRange restricts search recency.
type TimeRange string

const (
	TimeRangeWeek  TimeRange = "7d"
	TimeRangeMonth TimeRange = "30d"
	TimeRangeYear  TimeRange = "365d"
	TimeRangeAll   TimeRange = "all"
)

// TimeRanges lists the accepted time ranges in display order.
var TimeRanges = []TimeRange{TimeRangeWeek, TimeRangeMonth, TimeRangeYear, TimeRangeAll}

// ParseTimeRange validates s against the fixed enumeration.
func ParseTimeRange(s string) (TimeRange, error) {
	for _, tr := range TimeRanges {
		if string(tr) == strings.TrimSpace(s) {
			return tr, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q (want one of 7d, 30d, 365d, all)", s)
}

// Label returns a short human-readable name.
func (t TimeRange) Label() string {
	switch t {
	case TimeRangeWeek:
		return "7 days"
	case TimeRangeMonth:
		return "30 days"
	case TimeRangeYear:
		return "1 year"
	case TimeRangeAll:
		return "all time"
	}
	return string(t)
}

// UIMode controls answer verbosity on the backend.
type UIMode string

const (
	UIModeConcise UIMode = "concise"
	UIModeFull    UIMode = "full"
)

// Provider is the generation target chosen for a request.
type Provider string

const (
	ProviderRemote Provider = "remote"
	ProviderLocal  Provider = "local"
)

// OutputType asks the backend for the default answer or a structured document.
type OutputType string

const (
	OutputAnswer     OutputType = "answer"
	OutputFAQ        OutputType = "faq"
	OutputStudyGuide OutputType = "study_guide"
	OutputBriefing   OutputType = "briefing_doc"
	OutputTimeline   OutputType = "timeline"
	OutputMindMap    OutputType = "mind_map"
)

// OutputTypes lists every output type in switcher order.
var OutputTypes = []OutputType{OutputAnswer, OutputFAQ, OutputStudyGuide, OutputBriefing, OutputTimeline, OutputMindMap}

// Label returns the switcher label for the output type.
func (o OutputType) Label() string {
	switch o {
	case OutputAnswer, "":
		return "Default Answer"
	case OutputFAQ:
		return "FAQ"
	case OutputStudyGuide:
		return "Study Guide"
	case OutputBriefing:
		return "Briefing Document"
	case OutputTimeline:
		return "Timeline"
	case OutputMindMap:
		return "Mind Map"
	}
	return string(o)
}

// Markup is formatted text produced by the backend. It is rendered as-is:
// the backend is trusted to have sanitized it. Keep it distinct from plain
// strings so every place that renders it is visible.
type Markup string

// UIOptions is the nested "ui" object of a search request.
type UIOptions struct {
	Mode UIMode `json:"mode"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query            string     `json:"query"`
	MaxResults       int        `json:"maxResults"`
	Locale           string     `json:"locale"`
	TimeRange        TimeRange  `json:"timeRange"`
	Strict           bool       `json:"strict"`
	ForceLocal       bool       `json:"forceLocal"`
	IncludeDomains   []string   `json:"includeDomains"`
	ExcludeDomains   []string   `json:"excludeDomains"`
	UI               UIOptions  `json:"ui"`
	SelectedModel    string     `json:"selectedModel,omitempty"`
	SelectedProvider Provider   `json:"selectedProvider,omitempty"`
	OutputType       OutputType `json:"outputType,omitempty"`
}

// Source is one cited document.
type Source struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Published *string  `json:"published,omitempty"`
	Snippet   string   `json:"snippet"`
	Relevance *float64 `json:"relevance,omitempty"`
}

// Domain returns the bare host of the source URL.
func (s Source) Domain() string {
	return DomainOf(s.URL)
}

// DisplayTitle falls back to the domain when the title is empty.
func (s Source) DisplayTitle() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return s.Domain()
}

// TokenUsage reports prompt/completion token counts.
type TokenUsage struct {
	Prompt     *int `json:"prompt,omitempty"`
	Completion *int `json:"completion,omitempty"`
}

// Diagnostics describes how a response was produced. Every field is optional.
type Diagnostics struct {
	SearchProvider *string     `json:"searchProvider,omitempty"`
	LLM            *string     `json:"llm,omitempty"`
	LatencyMs      *int64      `json:"latencyMs,omitempty"`
	Cached         bool        `json:"cached,omitempty"`
	Tokens         *TokenUsage `json:"tokens,omitempty"`
	Notes          *string     `json:"notes,omitempty"`
}

// Summary renders "provider ↔ llm • cache|N ms". The timing segment is left
// out when the reply was not cached and carries no latency.
func (d Diagnostics) Summary() string {
	provider := "search"
	if d.SearchProvider != nil && *d.SearchProvider != "" {
		provider = *d.SearchProvider
	}
	llm := "llm"
	if d.LLM != nil && *d.LLM != "" {
		llm = *d.LLM
	}
	summary := provider + " ↔ " + llm
	switch {
	case d.Cached:
		return summary + " • cache"
	case d.LatencyMs != nil:
		return fmt.Sprintf("%s • %d ms", summary, *d.LatencyMs)
	default:
		return summary
	}
}

// SearchResponse is the body returned by POST /api/search. Structured is set
// only when the request asked for a structured output type.
type SearchResponse struct {
	Answer      string          `json:"answer"`
	Bullets     []string        `json:"bullets"`
	Sources     []Source        `json:"sources"`
	Diagnostics Diagnostics     `json:"diagnostics"`
	Structured  json.RawMessage `json:"structured,omitempty"`
}

// HasStructured reports whether the response carries a structured payload.
func (r *SearchResponse) HasStructured() bool {
	s := strings.TrimSpace(string(r.Structured))
	return s != "" && s != "null"
}

// ProviderModels is one provider record of the model catalog.
type ProviderModels struct {
	Configured string   `json:"configured,omitempty"`
	Available  []string `json:"available"`
	Error      string   `json:"error,omitempty"`
}

// HasModels reports whether at least one model is available.
func (p ProviderModels) HasModels() bool {
	return len(p.Available) > 0
}

// ModelCatalog is the body returned by GET /api/models.
type ModelCatalog struct {
	Remote ProviderModels `json:"remote"`
	Local  ProviderModels `json:"local"`
}

// Provider returns the record for p.
func (c *ModelCatalog) Provider(p Provider) ProviderModels {
	if p == ProviderLocal {
		return c.Local
	}
	return c.Remote
}

// UnmarshalJSON accepts both the remote/local keys and the
// openrouter/ollama keys some backends still emit.
func (c *ModelCatalog) UnmarshalJSON(data []byte) error {
	var raw struct {
		Remote     *ProviderModels `json:"remote"`
		Local      *ProviderModels `json:"local"`
		OpenRouter *ProviderModels `json:"openrouter"`
		Ollama     *ProviderModels `json:"ollama"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ModelCatalog{}
	switch {
	case raw.Remote != nil:
		c.Remote = *raw.Remote
	case raw.OpenRouter != nil:
		c.Remote = *raw.OpenRouter
	}
	switch {
	case raw.Local != nil:
		c.Local = *raw.Local
	case raw.Ollama != nil:
		c.Local = *raw.Ollama
	}
	return nil
}

// DiscoverRequest is the body of POST /api/discover.
type DiscoverRequest struct {
	Topic      string    `json:"topic"`
	MaxSources int       `json:"maxSources"`
	TimeRange  TimeRange `json:"timeRange"`
	Locale     string    `json:"locale"`
}

// Recommendation is one curated source from the discover flow.
type Recommendation struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Why       Markup  `json:"why_md"`
	Summary   Markup  `json:"summary_md"`
	Published *string `json:"published,omitempty"`
	Score     float64 `json:"score"`
}

// Domain returns the bare host of the recommendation URL.
func (r Recommendation) Domain() string {
	return DomainOf(r.URL)
}

// DiscoverResponse is the body returned by POST /api/discover.
type DiscoverResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	QueriesPlanned  []string         `json:"queries_planned"`
	Diagnostics     Diagnostics      `json:"diagnostics"`
}

// FormatPublished renders an optional publication timestamp as a date.
// Unparseable values are returned unchanged.
func FormatPublished(published *string) string {
	if published == nil || strings.TrimSpace(*published) == "" {
		return ""
	}
	p := strings.TrimSpace(*published)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, p); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return p
}
