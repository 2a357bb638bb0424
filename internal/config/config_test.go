package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"recworklist/internal/flags"
	"recworklist/internal/tracing"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.BaseURL = "http://recorder.local/cgi-bin/WwwRecorder"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Empty(t, cfg.BaseURL, "base url has no default")
	require.Equal(t, "WwwRecorder.cgi", cfg.Page)
	require.Equal(t, "ByStatus", cfg.SortBy)
	require.True(t, cfg.AutoRefresh)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 5*time.Second, cfg.API.PageCacheTTL)
	require.Equal(t, "Worklist", cfg.UI.Title)
	require.Equal(t, 400*time.Millisecond, cfg.UI.DoubleClick)
	require.True(t, cfg.Flags[flags.FlagResultHistory])
	require.True(t, cfg.Flags[flags.FlagSeriesMouse])
	require.False(t, cfg.Tracing.Enabled)
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "base_url is required"},
		{"relative base url", func(c *Config) { c.BaseURL = "/cgi-bin" }, "http or https"},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://host/x" }, "http or https"},
		{"unknown sort", func(c *Config) { c.SortBy = "ByColor" }, "sort_by must be one of"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"negative ttl", func(c *Config) { c.API.PageCacheTTL = -time.Second }, "api.page_cache_ttl"},
		{"zero double click", func(c *Config) { c.UI.DoubleClick = 0 }, "ui.double_click must be positive"},
		{"huge double click", func(c *Config) { c.UI.DoubleClick = time.Minute }, "at most 5s"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, "tracing.exporter"},
		{"file path", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = tracing.ExporterFile
			c.Tracing.FilePath = ""
		}, "tracing.file_path is required"},
		{"otlp endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = tracing.ExporterOTLP
			c.Tracing.OTLPEndpoint = ""
		}, "tracing.otlp_endpoint is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_EmptySortUsesDefault(t *testing.T) {
	cfg := validConfig()
	cfg.SortBy = ""
	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigTemplate_LoadsIntoDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.Page, cfg.Page)
	require.Equal(t, want.SortBy, cfg.SortBy)
	require.Equal(t, want.API, cfg.API)
	require.Equal(t, want.UI, cfg.UI)
	require.Equal(t, want.Flags, cfg.Flags)
	require.Equal(t, tracing.ExporterFile, cfg.Tracing.Exporter)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "x", "y.db"), ExpandHome("~/x/y.db"))
	require.Equal(t, home, ExpandHome("~"))
	require.Equal(t, "/abs/y.db", ExpandHome("/abs/y.db"))
	require.Equal(t, "~user/y.db", ExpandHome("~user/y.db"))
}
