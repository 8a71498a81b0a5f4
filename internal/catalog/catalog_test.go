package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"quaero/internal/api"
	"quaero/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCatalog() *api.ModelCatalog {
	return &api.ModelCatalog{
		Remote: api.ProviderModels{Configured: "x-ai/grok-4-fast", Available: []string{"x-ai/grok-4-fast"}},
		Local:  api.ProviderModels{Configured: "qwen3:4b", Available: []string{"qwen3:4b", "llama3:8b"}},
	}
}

func TestCurrentModelLabelBranches(t *testing.T) {
	full := fullCatalog()
	remoteNoDefault := &api.ModelCatalog{Remote: api.ProviderModels{Available: []string{"a"}}}
	remoteOnly := &api.ModelCatalog{Remote: full.Remote}
	localOnly := &api.ModelCatalog{Local: api.ProviderModels{Configured: "qwen3:4b", Available: []string{"qwen3:4b"}}}
	empty := &api.ModelCatalog{}

	cases := []struct {
		name string
		sel  Selection
		cat  *api.ModelCatalog
		want string
	}{
		{"no catalog", Default(false), nil, LabelLoading},
		{"no catalog local", Select(api.ProviderLocal, "llama3:8b"), nil, LabelLoading},
		{"local default", Default(true), full, "qwen3:4b"},
		{"local explicit", Select(api.ProviderLocal, "llama3:8b"), full, "llama3:8b"},
		{"remote default", Default(false), full, "x-ai/grok-4-fast"},
		{"remote explicit", Select(api.ProviderRemote, "openai/gpt-4o"), full, "openai/gpt-4o"},
		{"remote without default", Default(false), remoteNoDefault, LabelNotConfigured},
		{"local requested but empty", Default(true), remoteNoDefault, LabelNoModels},
		{"local override but only remote", Select(api.ProviderLocal, "llama3:8b"), remoteOnly, LabelNoModels},
		{"remote on remote-only catalog", Default(false), remoteOnly, "x-ai/grok-4-fast"},
		{"remote requested but only local", Default(false), localOnly, LabelNoModels},
		{"nothing", Default(true), empty, LabelNoModels},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentModelLabel(tc.sel, tc.cat)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, CurrentModelLabel(tc.sel, tc.cat), "label must be deterministic")
		})
	}
}

func TestSelectionCouplesForceLocal(t *testing.T) {
	local := Select(api.ProviderLocal, "llama3:8b")
	assert.True(t, local.ForceLocal())

	remote := Select(api.ProviderRemote, "x-ai/grok-4-fast")
	assert.False(t, remote.ForceLocal())

	// Toggling the flag never leaves a model from the other provider behind.
	toggled := local.WithForceLocal(false)
	assert.False(t, toggled.ForceLocal())
	assert.False(t, toggled.HasOverride())

	same := local.WithForceLocal(true)
	assert.Equal(t, local, same)

	var zero Selection
	assert.Equal(t, api.ProviderRemote, zero.Provider())
	assert.False(t, zero.ForceLocal())
}

func TestSelectionApply(t *testing.T) {
	var req api.SearchRequest
	Select(api.ProviderLocal, "llama3:8b").Apply(&req)
	assert.True(t, req.ForceLocal)
	assert.Equal(t, "llama3:8b", req.SelectedModel)
	assert.Equal(t, api.ProviderLocal, req.SelectedProvider)

	Default(true).Apply(&req)
	assert.True(t, req.ForceLocal)
	assert.Empty(t, req.SelectedModel)
	assert.Empty(t, req.SelectedProvider)
}

func TestChoices(t *testing.T) {
	cat := fullCatalog()
	choices := Choices(cat, Default(true))
	require.Len(t, choices, 3)

	assert.Equal(t, api.ProviderRemote, choices[0].Provider)
	assert.True(t, choices[0].Default)
	assert.False(t, choices[0].Selected)

	assert.Equal(t, "qwen3:4b", choices[1].Model)
	assert.True(t, choices[1].Selected, "local default is selected when no override")
	assert.False(t, choices[2].Selected)

	picked := choices[2].Selection()
	assert.True(t, picked.ForceLocal())
	assert.Equal(t, "llama3:8b", picked.Model())

	assert.Nil(t, Choices(nil, Default(false)))
}

func TestProviderStatus(t *testing.T) {
	cat := &api.ModelCatalog{
		Remote: api.ProviderModels{Error: "OPENROUTER_API_KEY not set"},
		Local:  api.ProviderModels{Configured: "qwen3:4b"},
	}
	assert.Equal(t, "OPENROUTER_API_KEY not set", ProviderStatus(cat, api.ProviderRemote))
	assert.Equal(t, "No local models detected", ProviderStatus(cat, api.ProviderLocal))
	assert.Empty(t, ProviderStatus(fullCatalog(), api.ProviderLocal))
}

type fakeFetcher struct {
	calls atomic.Int32
	fn    func(n int32) (*api.ModelCatalog, error)
}

func (f *fakeFetcher) Models(ctx context.Context) (*api.ModelCatalog, error) {
	return f.fn(f.calls.Add(1))
}

func TestFetchCachesAfterSuccess(t *testing.T) {
	f := &fakeFetcher{fn: func(int32) (*api.ModelCatalog, error) { return fullCatalog(), nil }}
	r := NewResolver(f)

	first, err := r.Fetch(context.Background())
	require.NoError(t, err)
	second, err := r.Fetch(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, "x-ai/grok-4-fast", r.Label(Default(false)))
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	f := &fakeFetcher{fn: func(n int32) (*api.ModelCatalog, error) {
		if n < 3 {
			return nil, &client.HTTPError{StatusCode: 503}
		}
		return fullCatalog(), nil
	}}
	r := NewResolver(f, WithRetry(3, time.Millisecond))

	cat, err := r.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cat)
	assert.EqualValues(t, 3, f.calls.Load())
	assert.NoError(t, r.Err())
}

func TestFetchFailureLeavesCacheEmpty(t *testing.T) {
	f := &fakeFetcher{fn: func(int32) (*api.ModelCatalog, error) {
		return nil, &client.HTTPError{StatusCode: 401, Body: "unauthorized"}
	}}
	r := NewResolver(f, WithRetry(3, time.Millisecond))

	_, err := r.Fetch(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, f.calls.Load(), "permanent errors are not retried")
	assert.Nil(t, r.Catalog())
	assert.Equal(t, 401, client.StatusCode(r.Err()))
	assert.Equal(t, LabelLoading, r.Label(Default(false)))

	var httpErr *client.HTTPError
	assert.True(t, errors.As(r.Err(), &httpErr))
}
