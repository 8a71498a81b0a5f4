// Package query owns the lifecycle of a single search: building the request
// from raw input, submitting it, cancelling it and discarding stale replies.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"quaero/internal/api"
	"quaero/internal/catalog"
	"quaero/internal/config"
)

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ErrEmptyQuery is returned when the trimmed query is empty.
var ErrEmptyQuery = &ValidationError{Field: "query", Reason: "must not be empty"}

// Mode is the search intent chip. It only changes the input placeholder.
type Mode int

const (
	ModeSearch Mode = iota
	ModeSummarize
	ModeLearn
)

// Modes lists every mode in chip order.
var Modes = []Mode{ModeSearch, ModeSummarize, ModeLearn}

func (m Mode) String() string {
	switch m {
	case ModeSummarize:
		return "Summarize"
	case ModeLearn:
		return "Learn"
	default:
		return "Explore"
	}
}

// Placeholder returns the prompt hint for the mode.
func (m Mode) Placeholder() string {
	switch m {
	case ModeSummarize:
		return "Paste a link to summarize…"
	case ModeLearn:
		return "I want to learn… (e.g. LLMs, TLS, economics)"
	default:
		return "Ask anything…"
	}
}

// Draft is the raw, unvalidated state of the search form.
type Draft struct {
	Query          string
	Mode           Mode
	MaxResults     int
	Locale         string
	TimeRange      api.TimeRange
	Strict         bool
	UIMode         api.UIMode
	IncludeDomains string // free text, split on commas/whitespace
	ExcludeDomains string
	OutputType     api.OutputType
	Selection      catalog.Selection
}

// NewDraft returns a draft seeded from the configured search defaults.
func NewDraft(cfg config.SearchConfig) Draft {
	tr, err := api.ParseTimeRange(cfg.TimeRange)
	if err != nil {
		tr = api.TimeRangeMonth
	}
	mode := api.UIMode(cfg.Mode)
	if mode == "" {
		mode = api.UIModeConcise
	}
	return Draft{
		MaxResults: cfg.MaxResults,
		Locale:     cfg.Locale,
		TimeRange:  tr,
		Strict:     cfg.Strict,
		UIMode:     mode,
		OutputType: api.OutputAnswer,
	}
}

var domainSeparators = regexp.MustCompile(`[,\s]+`)

// ParseDomains splits free text on commas and whitespace, trims each entry
// and drops empties. The result is never nil.
func ParseDomains(text string) []string {
	out := []string{}
	for _, part := range domainSeparators.Split(text, -1) {
		if d := strings.TrimSpace(part); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Build validates the draft and produces the request payload.
func (d Draft) Build() (api.SearchRequest, error) {
	q := strings.TrimSpace(d.Query)
	if isBlank(q) {
		return api.SearchRequest{}, ErrEmptyQuery
	}
	if d.MaxResults <= 0 {
		return api.SearchRequest{}, &ValidationError{Field: "maxResults", Reason: "must be positive"}
	}
	if _, err := api.ParseTimeRange(string(d.TimeRange)); err != nil {
		return api.SearchRequest{}, &ValidationError{Field: "timeRange", Reason: err.Error()}
	}

	mode := d.UIMode
	if mode == "" {
		mode = api.UIModeConcise
	}
	req := api.SearchRequest{
		Query:          q,
		MaxResults:     d.MaxResults,
		Locale:         d.Locale,
		TimeRange:      d.TimeRange,
		Strict:         d.Strict,
		IncludeDomains: ParseDomains(d.IncludeDomains),
		ExcludeDomains: ParseDomains(d.ExcludeDomains),
		UI:             api.UIOptions{Mode: mode},
	}
	if d.OutputType != "" && d.OutputType != api.OutputAnswer {
		req.OutputType = d.OutputType
	}
	d.Selection.Apply(&req)
	return req, nil
}

// AddIncludeDomain appends domain to the include scope unless it is already
// there. It reports whether the draft changed.
func (d *Draft) AddIncludeDomain(domain string) bool {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return false
	}
	for _, existing := range ParseDomains(d.IncludeDomains) {
		if strings.EqualFold(existing, domain) {
			return false
		}
	}
	if strings.TrimSpace(d.IncludeDomains) == "" {
		d.IncludeDomains = domain
	} else {
		d.IncludeDomains = strings.TrimRight(d.IncludeDomains, ", ") + ", " + domain
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
