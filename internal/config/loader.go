package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"quaero/internal/api"
	"quaero/internal/fileutil"

	"github.com/charmbracelet/glamour/styles"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
// An empty path means the default location; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getConfigPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)

	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = ConfigDir()
	}
	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ConfigDir returns the directory holding config.yaml and the log file.
func ConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "quaero")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "quaero")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
	}
	return filepath.Join(homeDir, ".config", "quaero")
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if base := os.Getenv("QUAERO_API_BASE"); base != "" {
		cfg.API.BaseURL = base
	}
	if level := os.Getenv("QUAERO_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
		cfg.Logging.Enabled = true
	}
	if locale := os.Getenv("QUAERO_LOCALE"); locale != "" {
		cfg.Search.Locale = locale
		cfg.Discover.Locale = locale
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if c.API.RequestTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Search.MaxResults < MinMaxResults || c.Search.MaxResults > MaxMaxResults {
		return fmt.Errorf("%w: %d", ErrInvalidMaxResults, c.Search.MaxResults)
	}
	if _, err := api.ParseTimeRange(c.Search.TimeRange); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if _, err := api.ParseTimeRange(c.Discover.TimeRange); err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	switch api.UIMode(c.Search.Mode) {
	case api.UIModeConcise, api.UIModeFull:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Search.Mode)
	}
	if c.Discover.MaxSources <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSources, c.Discover.MaxSources)
	}
	switch c.Studio.TimelineOrder {
	case "appearance", "chronological":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTimelineOrder, c.Studio.TimelineOrder)
	}
	if !knownStyle(c.Studio.MarkdownStyle) {
		return fmt.Errorf("%w: %q", ErrInvalidMarkdownStyle, c.Studio.MarkdownStyle)
	}
	if c.UI.CopyAck <= 0 {
		return ErrInvalidCopyAck
	}
	return nil
}

// knownStyle reports whether glamour ships a standard style by that name.
// The empty name selects the default.
func knownStyle(name string) bool {
	if name == "" || name == styles.AutoStyle {
		return true
	}
	_, ok := styles.DefaultStyles[name]
	return ok
}

// Error types for configuration validation.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrInvalidBaseURL       ConfigError = "api.base_url must be an absolute http(s) URL"
	ErrInvalidTimeout       ConfigError = "api.request_timeout must not be negative"
	ErrInvalidMaxResults    ConfigError = "search.max_results must be between 3 and 12"
	ErrInvalidMode          ConfigError = "search.mode must be concise or full"
	ErrInvalidMaxSources    ConfigError = "discover.max_sources must be positive"
	ErrInvalidTimelineOrder ConfigError = "studio.timeline_order must be appearance or chronological"
	ErrInvalidCopyAck       ConfigError = "ui.copy_ack must be positive"
	ErrInvalidMarkdownStyle ConfigError = "studio.markdown_style must name a glamour standard style"
)

// GetConfigPath returns the path to the config file (exported for external use).
func GetConfigPath() string {
	return getConfigPath()
}

// Save writes the configuration to path, or to the default location when
// path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = getConfigPath()
	}
	if path == "" {
		return fmt.Errorf("could not determine config path")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
