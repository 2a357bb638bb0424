// Package config provides configuration types and defaults for recworklist.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"recworklist/internal/flags"
	"recworklist/internal/log"
	"recworklist/internal/page"
	"recworklist/internal/tracing"
)

// Config holds all configuration options for recworklist.
type Config struct {
	BaseURL     string          `mapstructure:"base_url"`     // e.g. http://recorder.local/cgi-bin/WwwRecorder
	Page        string          `mapstructure:"page"`         // worklist page, relative to base_url
	Provider    string          `mapstructure:"provider"`     // used when the page has no Provider field
	SortBy      string          `mapstructure:"sort_by"`      // ByStatus | ByTitle | ByUpdate
	AutoRefresh bool            `mapstructure:"auto_refresh"` // reload highlight keywords when storage changes
	API         APIConfig       `mapstructure:"api"`
	UI          UIConfig        `mapstructure:"ui"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Tracing     tracing.Config  `mapstructure:"tracing"`
	Flags       map[string]bool `mapstructure:"flags"`
}

// APIConfig holds backend request settings.
type APIConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PageCacheTTL time.Duration `mapstructure:"page_cache_ttl"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Title            string        `mapstructure:"title"`        // title used when the page has none
	DoubleClick      time.Duration `mapstructure:"double_click"` // max gap between clicks of a double click
	Mouse            bool          `mapstructure:"mouse"`
	ShowDetailInline bool          `mapstructure:"show_detail_inline"`
}

// StorageConfig locates the local database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// Dir returns ~/.config/recworklist, or "" if the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "recworklist")
}

// DefaultStoragePath returns the default local database path.
func DefaultStoragePath() string {
	dir := Dir()
	if dir == "" {
		return "worklist.db"
	}
	return filepath.Join(dir, "worklist.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with default values. BaseURL has no default.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Page:        "WwwRecorder.cgi",
		SortBy:      page.SortByStatus,
		AutoRefresh: true,
		API: APIConfig{
			Timeout:      30 * time.Second,
			PageCacheTTL: 5 * time.Second,
		},
		UI: UIConfig{
			Title:            "Worklist",
			DoubleClick:      400 * time.Millisecond,
			Mouse:            true,
			ShowDetailInline: true,
		},
		Storage: StorageConfig{Path: DefaultStoragePath()},
		Tracing: tc,
		Flags: map[string]bool{
			flags.FlagResultHistory: true,
			flags.FlagSeriesMouse:   true,
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateBaseURL(cfg.BaseURL); err != nil {
		return err
	}
	if cfg.SortBy != "" && !page.ValidSortBy(cfg.SortBy) {
		return fmt.Errorf("sort_by must be one of %s, got %q", strings.Join(page.SortOrders, ", "), cfg.SortBy)
	}
	if err := ValidateAPI(cfg.API); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateBaseURL requires an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("base_url is required (set it in the config file or pass --base-url)")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http or https URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url has no host: %q", raw)
	}
	return nil
}

// ValidateAPI checks request settings. Zero values use defaults.
func ValidateAPI(api APIConfig) error {
	if api.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %s", api.Timeout)
	}
	if api.PageCacheTTL < 0 {
		return fmt.Errorf("api.page_cache_ttl must not be negative, got %s", api.PageCacheTTL)
	}
	return nil
}

// ValidateUI checks user interface settings.
func ValidateUI(ui UIConfig) error {
	if ui.DoubleClick <= 0 {
		return fmt.Errorf("ui.double_click must be positive, got %s", ui.DoubleClick)
	}
	if ui.DoubleClick > 5*time.Second {
		return fmt.Errorf("ui.double_click must be at most 5s, got %s", ui.DoubleClick)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}
	if tc.Exporter != "" && !slices.Contains(tracing.Exporters, tc.Exporter) {
		return fmt.Errorf("tracing.exporter must be one of %s, got %q", strings.Join(tracing.Exporters, ", "), tc.Exporter)
	}
	if tc.Enabled {
		if tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is %q", tracing.ExporterFile)
		}
		if tc.Exporter == tracing.ExporterOTLP && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is %q", tracing.ExporterOTLP)
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# recworklist configuration

# Recorder CGI directory (required)
# base_url: http://recorder.local/cgi-bin/WwwRecorder

# Worklist page, relative to base_url
page: WwwRecorder.cgi

# Provider sent with commands when the page does not carry one
# provider: radiko

# Initial sort order: ByStatus, ByTitle or ByUpdate (saved when changed in the UI)
sort_by: ByStatus

# Reload highlight keywords when the local database changes
auto_refresh: true

api:
  timeout: 30s          # Give up on a backend request after this long
  page_cache_ttl: 5s    # Reuse a fetched worklist page for this long

ui:
  title: Worklist       # Title used when the page has none
  double_click: 400ms   # Max gap between the two clicks of a double click
  mouse: true           # Enable mouse input
  show_detail_inline: true

storage:
  # path: ~/.config/recworklist/worklist.db

tracing:
  enabled: false
  exporter: file        # none, file, stdout or otlp
  # file_path: ~/.config/recworklist/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0

flags:
  result-history: true  # Record backend results in the local database
  series-mouse: true    # Double click a series cell to apply its status to the series
`
}

// WriteDefaultConfig creates a config file with default settings and comments.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
