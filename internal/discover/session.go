// Package discover runs the "find sources for a topic" flow, independent of
// the main query session.
package discover

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"quaero/internal/api"
	"quaero/internal/config"
	"quaero/internal/logging"
	"quaero/internal/query"

	"github.com/google/uuid"
)

// State is the discover lifecycle state. There is no cancelled state: an
// in-flight discover runs to completion.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

var (
	// ErrEmptyTopic is returned for an empty or whitespace-only topic.
	ErrEmptyTopic = &query.ValidationError{Field: "topic", Reason: "must not be empty"}
	// ErrInFlight is returned when a discover is started while one is pending.
	ErrInFlight = errors.New("discover already in progress")
	// ErrNoSession is returned by AddToSession when no host session is wired.
	ErrNoSession = errors.New("no search session to add sources to")
	// ErrAlreadyInScope is returned when the domain is already included.
	ErrAlreadyInScope = errors.New("source already in search scope")
)

// Backend performs the discover round trip.
type Backend interface {
	Discover(ctx context.Context, req api.DiscoverRequest) (*api.DiscoverResponse, error)
}

// SourceAdder receives domains picked from recommendations. The host wires it
// into the main search's include-domains scope; *query.Draft satisfies it.
type SourceAdder interface {
	AddIncludeDomain(domain string) bool
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	State    State
	Topic    string
	Response *api.DiscoverResponse
	Failure  string
}

// Outcome is the result of running a Call.
type Outcome struct {
	ID       uuid.UUID
	Snapshot Snapshot
}

// Call is one started discover, not yet executed.
type Call struct {
	ID uuid.UUID

	ctx  context.Context
	req  api.DiscoverRequest
	sess *Session
}

// Do performs the backend round trip and records the result. It blocks.
func (c *Call) Do() Outcome {
	start := time.Now()
	resp, err := c.sess.backend.Discover(c.ctx, c.req)
	logging.Debug("discover round trip finished", "id", c.ID.String(), "elapsed", time.Since(start), "error", err)
	return c.sess.resolve(c.ID, resp, err)
}

// Session is the discover state machine.
type Session struct {
	backend  Backend
	defaults config.DiscoverConfig

	mu      sync.Mutex
	adder   SourceAdder
	state   State
	current uuid.UUID
	topic   string
	resp    *api.DiscoverResponse
	failure string
}

// NewSession creates an idle session that fills requests from cfg.
func NewSession(backend Backend, cfg config.DiscoverConfig, adder SourceAdder) *Session {
	return &Session{backend: backend, defaults: cfg, adder: adder}
}

// SetSourceAdder rewires where AddToSession sends domains.
func (s *Session) SetSourceAdder(adder SourceAdder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adder = adder
}

// Request builds the request for topic with the configured defaults.
func (s *Session) Request(topic string) api.DiscoverRequest {
	tr, err := api.ParseTimeRange(s.defaults.TimeRange)
	if err != nil {
		tr = api.TimeRangeYear
	}
	return api.DiscoverRequest{
		Topic:      strings.TrimSpace(topic),
		MaxSources: s.defaults.MaxSources,
		TimeRange:  tr,
		Locale:     s.defaults.Locale,
	}
}

// Begin validates topic and moves the session to pending.
func (s *Session) Begin(ctx context.Context, topic string) (*Call, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StatePending {
		return nil, ErrInFlight
	}

	req := s.Request(topic)
	id := uuid.New()
	s.current = id
	s.state = StatePending
	s.topic = req.Topic
	s.resp = nil
	s.failure = ""

	logging.Info("discover started", "id", id.String(), "topic_len", len(req.Topic), "max_sources", req.MaxSources)
	return &Call{ID: id, ctx: ctx, req: req, sess: s}, nil
}

func (s *Session) resolve(id uuid.UUID, resp *api.DiscoverResponse, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.current || s.state != StatePending {
		logging.Debug("discarding stale discover reply", "id", id.String())
		return Outcome{ID: id, Snapshot: s.snapshotLocked()}
	}

	switch {
	case err != nil:
		logging.Warn("discover failed", "id", id.String(), "error", err)
		s.state = StateFailed
		s.failure = err.Error()
	case resp == nil:
		s.state = StateFailed
		s.failure = "empty response from backend"
	default:
		logging.Info("discover succeeded", "id", id.String(), "recommendations", len(resp.Recommendations))
		s.state = StateSucceeded
		s.resp = resp
	}
	return Outcome{ID: id, Snapshot: s.snapshotLocked()}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, Topic: s.topic, Response: s.resp, Failure: s.failure}
}

// AddToSession hands the domain of rawURL to the host search session.
func (s *Session) AddToSession(rawURL string) error {
	s.mu.Lock()
	adder := s.adder
	s.mu.Unlock()

	if adder == nil {
		return ErrNoSession
	}
	domain := api.DomainOf(rawURL)
	if !adder.AddIncludeDomain(domain) {
		return ErrAlreadyInScope
	}
	logging.Info("source added to search scope", "domain", domain)
	return nil
}

// PlannedQueries joins the backend's planned queries for display.
func PlannedQueries(resp *api.DiscoverResponse) string {
	if resp == nil {
		return ""
	}
	return strings.Join(resp.QueriesPlanned, ", ")
}
