package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.Search.MaxResults)
	assert.Equal(t, "30d", cfg.Search.TimeRange)
	assert.Equal(t, 10, cfg.Discover.MaxSources)
	assert.Equal(t, "365d", cfg.Discover.TimeRange)
	assert.Equal(t, 1400*time.Millisecond, cfg.UI.CopyAck)
	assert.Zero(t, cfg.API.RequestTimeout)
	assert.False(t, cfg.Studio.SanitizeMarkup)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: ${TEST_QUAERO_HOST}
  request_timeout: 45s
search:
  max_results: 8
  time_range: 7d
studio:
  timeline_order: chronological
`), 0o600))

	t.Setenv("TEST_QUAERO_HOST", "http://backend:9000")
	t.Setenv("QUAERO_LOCALE", "fr")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 8, cfg.Search.MaxResults)
	assert.Equal(t, "7d", cfg.Search.TimeRange)
	assert.Equal(t, "fr", cfg.Search.Locale)
	assert.Equal(t, "fr", cfg.Discover.Locale)
	assert.Equal(t, "chronological", cfg.Studio.TimelineOrder)
	assert.True(t, cfg.Search.Strict, "untouched fields keep defaults")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [oops"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"base url", func(c *Config) { c.API.BaseURL = "localhost" }, ErrInvalidBaseURL},
		{"too many results", func(c *Config) { c.Search.MaxResults = 13 }, ErrInvalidMaxResults},
		{"too few results", func(c *Config) { c.Search.MaxResults = 2 }, ErrInvalidMaxResults},
		{"mode", func(c *Config) { c.Search.Mode = "detailed" }, ErrInvalidMode},
		{"timeline", func(c *Config) { c.Studio.TimelineOrder = "random" }, ErrInvalidTimelineOrder},
		{"copy ack", func(c *Config) { c.UI.CopyAck = 0 }, ErrInvalidCopyAck},
		{"timeout", func(c *Config) { c.API.RequestTimeout = -time.Second }, ErrInvalidTimeout},
		{"sources", func(c *Config) { c.Discover.MaxSources = 0 }, ErrInvalidMaxSources},
		{"markdown style", func(c *Config) { c.Studio.MarkdownStyle = "solarized" }, ErrInvalidMarkdownStyle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	cfg := DefaultConfig()
	cfg.Search.TimeRange = "90d"
	assert.Error(t, cfg.Validate())

	for _, style := range []string{"", "auto", "notty", "dracula"} {
		cfg := DefaultConfig()
		cfg.Studio.MarkdownStyle = style
		assert.NoError(t, cfg.Validate(), style)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Search.Locale = "de"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "de", loaded.Search.Locale)
	assert.Equal(t, cfg.UI.CopyAck, loaded.UI.CopyAck)
}
