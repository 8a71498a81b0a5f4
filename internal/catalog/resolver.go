package catalog

import (
	"context"
	"sync"
	"time"

	"quaero/internal/api"
	"quaero/internal/client"
	"quaero/internal/logging"

	"github.com/cenkalti/backoff/v4"
)

// Fetcher retrieves the model catalog from the backend.
type Fetcher interface {
	Models(ctx context.Context) (*api.ModelCatalog, error)
}

// Resolver caches the model catalog. Fetch is the only writer; readers get
// whatever the last successful fetch stored.
type Resolver struct {
	fetcher Fetcher
	retries int
	delay   time.Duration

	mu      sync.RWMutex
	catalog *api.ModelCatalog
	err     error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRetry retries transient failures up to n extra times, starting at delay.
func WithRetry(n int, delay time.Duration) ResolverOption {
	return func(r *Resolver) {
		if n >= 0 {
			r.retries = n
		}
		if delay > 0 {
			r.delay = delay
		}
	}
}

// NewResolver creates a Resolver backed by f.
func NewResolver(f Fetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher: f,
		delay:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch returns the cached catalog, fetching it on first use. A failure
// leaves the cache empty and is remembered for display; callers should fall
// back to "no override" rather than abort the search.
func (r *Resolver) Fetch(ctx context.Context) (*api.ModelCatalog, error) {
	if cat := r.Catalog(); cat != nil {
		return cat, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.delay
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.retries)), ctx)

	op := func() (*api.ModelCatalog, error) {
		cat, err := r.fetcher.Models(ctx)
		if err != nil && !client.IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return cat, err
	}
	notify := func(err error, wait time.Duration) {
		logging.Warn("model catalog fetch failed, retrying", "error", err, "wait", wait)
	}

	cat, err := backoff.RetryNotifyWithData(op, b, notify)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		logging.Error("model catalog unavailable", "error", err)
		r.err = err
		return nil, err
	}
	r.catalog = cat
	r.err = nil
	return cat, nil
}

// Catalog returns the cached catalog or nil.
func (r *Resolver) Catalog() *api.ModelCatalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

// Err returns the last fetch failure, cleared by a later success.
func (r *Resolver) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Label is CurrentModelLabel over the cached catalog.
func (r *Resolver) Label(sel Selection) string {
	return CurrentModelLabel(sel, r.Catalog())
}
