package config

import "time"

// Config represents the main application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Search   SearchConfig   `yaml:"search"`
	Discover DiscoverConfig `yaml:"discover"`
	Studio   StudioConfig   `yaml:"studio"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Runtime version information
	Version string `yaml:"-"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each backend call. Zero means no deadline:
	// a request runs until it resolves, errors or is superseded.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	CatalogRetries    int           `yaml:"catalog_retries"`     // Extra attempts for GET /api/models
	CatalogRetryDelay time.Duration `yaml:"catalog_retry_delay"` // Initial backoff between attempts
}

// SearchConfig holds the defaults the request builder starts from.
type SearchConfig struct {
	MaxResults int    `yaml:"max_results"`
	Locale     string `yaml:"locale"`
	TimeRange  string `yaml:"time_range"` // 7d, 30d, 365d, all
	Strict     bool   `yaml:"strict"`
	Mode       string `yaml:"mode"` // concise, full
}

// DiscoverConfig holds the fixed parameters of the discover flow.
type DiscoverConfig struct {
	MaxSources int    `yaml:"max_sources"`
	TimeRange  string `yaml:"time_range"`
	Locale     string `yaml:"locale"`
}

// StudioConfig holds structured-result rendering settings.
type StudioConfig struct {
	// SanitizeMarkup strips unsafe HTML from backend markup before rendering.
	// Off by default: the backend is trusted to sanitize its own output.
	SanitizeMarkup bool          `yaml:"sanitize_markup"`
	TimelineOrder  string        `yaml:"timeline_order"` // appearance, chronological
	MarkdownStyle  string        `yaml:"markdown_style"` // glamour standard style name
	CacheSize      int           `yaml:"cache_size"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	CopyAck         time.Duration `yaml:"copy_ack"` // How long "copied" stays visible
	ShowDiagnostics bool          `yaml:"show_diagnostics"`
	Mouse           bool          `yaml:"mouse"`
}

// LoggingConfig holds log file settings.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Dir     string `yaml:"dir"` // Defaults to the config directory
}
