package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	require.Equal(t, 256, d.Highlight.ChunkLength)
	require.Equal(t, 255, d.Highlight.QueueCapacity)
	require.Equal(t, 256, d.Highlight.MatchLimit)
	require.Equal(t, []string{"TODO:", "FIXME:", "MARK:"}, d.Markers.Patterns)
	require.Equal(t, "//", d.Markers.Prefix)
	require.False(t, d.Tracing.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
theme: dracula
highlight:
  chunk_length: 64
  synchronous: true
markers:
  prefix: "#"
  patterns: ["NOTE:", "TODO:"]
tracing:
  enabled: true
  exporter: stdout
`)
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "dracula", cfg.Theme)
	require.Equal(t, 64, cfg.Highlight.ChunkLength)
	require.True(t, cfg.Highlight.Synchronous)
	require.Equal(t, 255, cfg.Highlight.QueueCapacity, "unset keys keep their defaults")
	require.Equal(t, "#", cfg.Markers.Prefix)
	require.Equal(t, []string{"NOTE:", "TODO:"}, cfg.Markers.Patterns)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "stdout", cfg.Tracing.Exporter)
	require.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "theme: dracula\n")
	t.Setenv("LIVEHL_THEME", "monokai")
	t.Setenv("LIVEHL_HIGHLIGHT_MATCH_LIMIT", "32")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "monokai", cfg.Theme)
	require.Equal(t, 32, cfg.Highlight.MatchLimit)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero chunk", func(c *Config) { c.Highlight.ChunkLength = 0 }, "chunk_length"},
		{"negative capacity", func(c *Config) { c.Highlight.QueueCapacity = -1 }, "queue_capacity"},
		{"zero match limit", func(c *Config) { c.Highlight.MatchLimit = 0 }, "match_limit"},
		{"negative depth", func(c *Config) { c.Highlight.MaxInjectionDepth = -1 }, "max_injection_depth"},
		{"no markers", func(c *Config) { c.Markers.Patterns = nil }, "at least one marker"},
		{"blank marker", func(c *Config) { c.Markers.Patterns = []string{"TODO:", " "} }, "markers.patterns[1]"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, "tracing.exporter"},
		{"file exporter without path", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "file"
		}, "file_path"},
		{"otlp without endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.OTLPEndpoint = ""
		}, "otlp_endpoint"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
