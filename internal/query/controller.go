package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"quaero/internal/api"
	"quaero/internal/logging"

	"github.com/google/uuid"
)

// State is the lifecycle state of the current search.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Controller errors.
var (
	ErrNotPending          = errors.New("no search in flight")
	ErrNothingToRegenerate = errors.New("nothing to regenerate")
	ErrNoResult            = errors.New("no answer to copy")
)

// Token identifies one submission. A reply is only accepted while its token
// is still the controller's current token.
type Token struct {
	id uuid.UUID
}

// NewToken mints a fresh token.
func NewToken() Token { return Token{id: uuid.New()} }

// IsZero reports whether t identifies no submission.
func (t Token) IsZero() bool { return t.id == uuid.Nil }

func (t Token) String() string {
	if t.IsZero() {
		return "none"
	}
	return t.id.String()
}

// Backend performs the search round trip.
type Backend interface {
	Search(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error)
}

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	State    State
	Token    Token
	Request  *api.SearchRequest
	Response *api.SearchResponse
	Failure  string // displayable message when State is StateFailed
}

// Outcome is the result of running a Call.
type Outcome struct {
	Token    Token
	Accepted bool // false when the reply was stale and discarded
	Snapshot Snapshot
}

// Call is one submitted search, not yet executed.
type Call struct {
	Token Token

	ctx  context.Context
	req  api.SearchRequest
	ctrl *Controller
}

// Do performs the backend round trip and resolves it against the controller.
// It blocks; run it off the UI loop.
func (c *Call) Do() Outcome {
	log := logging.With("token", c.Token.String())
	start := time.Now()
	resp, err := c.ctrl.backend.Search(c.ctx, c.req)
	log.Debug("search round trip finished", "elapsed", time.Since(start), "error", err)
	return c.ctrl.resolve(c.Token, resp, err)
}

// Controller owns the single-query lifecycle. At most one submission is
// pending; replies for superseded tokens are dropped whatever order they
// arrive in.
type Controller struct {
	backend Backend
	ack     *CopyAck

	mu      sync.Mutex
	state   State
	current Token
	abort   context.CancelFunc
	last    *api.SearchRequest
	resp    *api.SearchResponse
	failure string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithCopyAckWindow sets how long the copy acknowledgement stays raised.
func WithCopyAckWindow(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.ack = NewCopyAck(d)
	}
}

// NewController creates an idle controller.
func NewController(backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		ack:     NewCopyAck(DefaultCopyAckWindow),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a new search. An empty query is rejected before any state
// change. A pending predecessor is cancelled first.
func (c *Controller) Submit(ctx context.Context, req api.SearchRequest) (*Call, error) {
	if isBlank(req.Query) {
		return nil, ErrEmptyQuery
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePending {
		logging.Info("superseding pending search", "token", c.current.String())
		c.abortLocked()
	}

	token := NewToken()
	callCtx, cancel := context.WithCancel(ctx)
	saved := req

	c.current = token
	c.abort = cancel
	c.state = StatePending
	c.last = &saved
	c.resp = nil
	c.failure = ""

	logging.Info("search submitted", "token", token.String(), "query_len", len(req.Query), "output", req.OutputType)
	return &Call{Token: token, ctx: callCtx, req: req, ctrl: c}, nil
}

// Cancel aborts the pending search. It is only legal while pending and never
// produces a failure.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePending {
		return ErrNotPending
	}
	logging.Info("search cancelled", "token", c.current.String())
	c.abortLocked()
	c.current = Token{}
	c.state = StateCancelled
	return nil
}

// Regenerate re-submits the most recent request verbatim.
func (c *Controller) Regenerate(ctx context.Context) (*Call, error) {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	if last == nil {
		return nil, ErrNothingToRegenerate
	}
	return c.Submit(ctx, *last)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Current returns the token of the live submission.
func (c *Controller) Current() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) resolve(token Token, resp *api.SearchResponse, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.current || c.state != StatePending {
		logging.Debug("discarding stale search reply", "token", token.String(), "current", c.current.String())
		return Outcome{Token: token, Accepted: false, Snapshot: c.snapshotLocked()}
	}

	if c.abort != nil {
		c.abort()
		c.abort = nil
	}

	switch {
	case err != nil && errors.Is(err, context.Canceled):
		// The caller's context went away; same as an explicit cancel.
		c.state = StateCancelled
		c.current = Token{}
	case err != nil:
		logging.Warn("search failed", "token", token.String(), "error", err)
		c.state = StateFailed
		c.failure = err.Error()
	case resp == nil:
		c.state = StateFailed
		c.failure = "empty response from backend"
	default:
		logging.Info("search succeeded", "token", token.String(), "sources", len(resp.Sources))
		c.state = StateSucceeded
		c.resp = resp
	}
	return Outcome{Token: token, Accepted: true, Snapshot: c.snapshotLocked()}
}

func (c *Controller) abortLocked() {
	if c.abort != nil {
		c.abort()
		c.abort = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:    c.state,
		Token:    c.current,
		Request:  c.last,
		Response: c.resp,
		Failure:  c.failure,
	}
}

// Copy writes the current answer to clip and raises the acknowledgement
// flag. Only a succeeded search can be copied.
func (c *Controller) Copy(clip Clipboard) error {
	c.mu.Lock()
	if c.state != StateSucceeded || c.resp == nil {
		c.mu.Unlock()
		return ErrNoResult
	}
	text := FormatForClipboard(c.resp)
	c.mu.Unlock()

	if err := clip.WriteAll(text); err != nil {
		return err
	}
	c.ack.Trigger()
	return nil
}

// Copied reports whether the copy acknowledgement is raised.
func (c *Controller) Copied() bool {
	return c.ack.Active()
}

// CopyAckWindow returns how long the acknowledgement stays raised.
func (c *Controller) CopyAckWindow() time.Duration {
	return c.ack.Window()
}
