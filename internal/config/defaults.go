package config

import "time"

// Default configuration values.
const (
	DefaultBaseURL           = "http://localhost:8080"
	DefaultCatalogRetries    = 3
	DefaultCatalogRetryDelay = 500 * time.Millisecond

	DefaultMaxResults = 6
	MinMaxResults     = 3
	MaxMaxResults     = 12
	DefaultLocale     = "en"
	DefaultTimeRange  = "30d"
	DefaultMode       = "concise"

	DefaultDiscoverMaxSources = 10
	DefaultDiscoverTimeRange  = "365d"

	DefaultTimelineOrder = "appearance"
	DefaultMarkdownStyle = "dark"
	DefaultCacheSize     = 128
	DefaultCacheTTL      = 10 * time.Minute

	DefaultCopyAck = 1400 * time.Millisecond

	DefaultLogLevel = "info"
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			CatalogRetries:    DefaultCatalogRetries,
			CatalogRetryDelay: DefaultCatalogRetryDelay,
		},
		Search: SearchConfig{
			MaxResults: DefaultMaxResults,
			Locale:     DefaultLocale,
			TimeRange:  DefaultTimeRange,
			Strict:     true,
			Mode:       DefaultMode,
		},
		Discover: DiscoverConfig{
			MaxSources: DefaultDiscoverMaxSources,
			TimeRange:  DefaultDiscoverTimeRange,
			Locale:     DefaultLocale,
		},
		Studio: StudioConfig{
			TimelineOrder: DefaultTimelineOrder,
			MarkdownStyle: DefaultMarkdownStyle,
			CacheSize:     DefaultCacheSize,
			CacheTTL:      DefaultCacheTTL,
		},
		UI: UIConfig{
			CopyAck:         DefaultCopyAck,
			ShowDiagnostics: true,
			Mouse:           true,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}
