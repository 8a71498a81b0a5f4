package discover

import (
	"context"
	"testing"

	"quaero/internal/api"
	"quaero/internal/client"
	"quaero/internal/config"
	"quaero/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	got  []api.DiscoverRequest
	resp *api.DiscoverResponse
	err  error
}

func (f *fakeBackend) Discover(ctx context.Context, req api.DiscoverRequest) (*api.DiscoverResponse, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

func sampleResponse() *api.DiscoverResponse {
	return &api.DiscoverResponse{
		Recommendations: []api.Recommendation{
			{Title: "Second by score", URL: "https://www.esa.int/x", Score: 0.4},
			{Title: "First by score", URL: "https://nasa.gov/y", Score: 0.9},
		},
		QueriesPlanned: []string{"exoplanets review", "exoplanet atmospheres"},
	}
}

func TestBeginUsesDefaults(t *testing.T) {
	b := &fakeBackend{resp: sampleResponse()}
	s := NewSession(b, config.DefaultConfig().Discover, nil)

	call, err := s.Begin(context.Background(), "  exoplanets ")
	require.NoError(t, err)
	assert.Equal(t, StatePending, s.Snapshot().State)

	out := call.Do()
	require.Len(t, b.got, 1)
	assert.Equal(t, api.DiscoverRequest{Topic: "exoplanets", MaxSources: 10, TimeRange: api.TimeRangeYear, Locale: "en"}, b.got[0])

	assert.Equal(t, StateSucceeded, out.Snapshot.State)
	// Response order is kept as-is.
	assert.Equal(t, "Second by score", out.Snapshot.Response.Recommendations[0].Title)
	assert.Equal(t, "exoplanets review, exoplanet atmospheres", PlannedQueries(out.Snapshot.Response))
}

func TestBeginRejectsEmptyTopic(t *testing.T) {
	b := &fakeBackend{}
	s := NewSession(b, config.DefaultConfig().Discover, nil)

	_, err := s.Begin(context.Background(), " \n ")
	assert.ErrorIs(t, err, ErrEmptyTopic)

	var verr *query.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "topic", verr.Field)
	assert.Empty(t, b.got)
	assert.Equal(t, StateIdle, s.Snapshot().State)
}

func TestBeginWhilePending(t *testing.T) {
	s := NewSession(&fakeBackend{resp: sampleResponse()}, config.DefaultConfig().Discover, nil)

	call, err := s.Begin(context.Background(), "a")
	require.NoError(t, err)
	_, err = s.Begin(context.Background(), "b")
	assert.ErrorIs(t, err, ErrInFlight)

	call.Do()
	_, err = s.Begin(context.Background(), "b")
	assert.NoError(t, err)
}

func TestDiscoverFailure(t *testing.T) {
	b := &fakeBackend{err: &client.HTTPError{StatusCode: 502, Body: "bad gateway"}}
	s := NewSession(b, config.DefaultConfig().Discover, nil)

	call, err := s.Begin(context.Background(), "x")
	require.NoError(t, err)
	out := call.Do()
	assert.Equal(t, StateFailed, out.Snapshot.State)
	assert.Equal(t, "HTTP 502: bad gateway", out.Snapshot.Failure)
	assert.Nil(t, out.Snapshot.Response)
}

func TestAddToSession(t *testing.T) {
	s := NewSession(&fakeBackend{}, config.DefaultConfig().Discover, nil)
	assert.ErrorIs(t, s.AddToSession("https://nasa.gov"), ErrNoSession)

	draft := &query.Draft{IncludeDomains: "nasa.gov"}
	s.SetSourceAdder(draft)

	require.NoError(t, s.AddToSession("https://www.esa.int/Science"))
	assert.Equal(t, "nasa.gov, esa.int", draft.IncludeDomains)
	assert.ErrorIs(t, s.AddToSession("https://nasa.gov/other"), ErrAlreadyInScope)
}
