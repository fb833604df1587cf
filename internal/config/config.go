// Package config provides configuration types, defaults and loading for livehl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"livehl/internal/log"
	"livehl/internal/tracing"

	"github.com/spf13/viper"
)

// Config holds all configuration options.
type Config struct {
	Theme     string          `mapstructure:"theme"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Markers   MarkersConfig   `mapstructure:"markers"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
}

// HighlightConfig tunes the highlight pipeline.
type HighlightConfig struct {
	ChunkLength       int  `mapstructure:"chunk_length"`
	QueueCapacity     int  `mapstructure:"queue_capacity"`
	MatchLimit        int  `mapstructure:"match_limit"`
	MaxInjectionDepth int  `mapstructure:"max_injection_depth"`
	Synchronous       bool `mapstructure:"synchronous"` // run queries on the caller instead of the worker
}

// MarkersConfig selects the comment markers that get a distinct style.
type MarkersConfig struct {
	Prefix   string   `mapstructure:"prefix"`
	Patterns []string `mapstructure:"patterns"`
}

// LogConfig controls the debug log. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Defaults returns a Config with the built-in values.
func Defaults() Config {
	return Config{
		Theme: "nord",
		Highlight: HighlightConfig{
			ChunkLength:       256,
			QueueCapacity:     255,
			MatchLimit:        256,
			MaxInjectionDepth: 4,
		},
		Markers: MarkersConfig{
			Prefix:   "//",
			Patterns: []string{"TODO:", "FIXME:", "MARK:"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// SetDefaults registers every default with v so unset keys unmarshal to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("theme", d.Theme)
	v.SetDefault("highlight.chunk_length", d.Highlight.ChunkLength)
	v.SetDefault("highlight.queue_capacity", d.Highlight.QueueCapacity)
	v.SetDefault("highlight.match_limit", d.Highlight.MatchLimit)
	v.SetDefault("highlight.max_injection_depth", d.Highlight.MaxInjectionDepth)
	v.SetDefault("highlight.synchronous", d.Highlight.Synchronous)
	v.SetDefault("markers.prefix", d.Markers.Prefix)
	v.SetDefault("markers.patterns", d.Markers.Patterns)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load reads configuration into v and returns the decoded result.
//
// Lookup order when path is empty:
//  1. ./.livehl.yaml
//  2. ~/.config/livehl/config.yaml
//
// A missing file means defaults. An explicit path that cannot be read is an
// error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("LIVEHL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(".livehl.yaml"); err == nil {
		v.SetConfigFile(".livehl.yaml")
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "livehl"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file, using defaults")
	} else {
		log.Debug(log.CatConfig, "config loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks c for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Highlight.ChunkLength <= 0 {
		return fmt.Errorf("highlight.chunk_length must be positive, got %d", c.Highlight.ChunkLength)
	}
	if c.Highlight.QueueCapacity <= 0 {
		return fmt.Errorf("highlight.queue_capacity must be positive, got %d", c.Highlight.QueueCapacity)
	}
	if c.Highlight.MatchLimit <= 0 {
		return fmt.Errorf("highlight.match_limit must be positive, got %d", c.Highlight.MatchLimit)
	}
	if c.Highlight.MaxInjectionDepth < 0 {
		return fmt.Errorf("highlight.max_injection_depth must not be negative, got %d", c.Highlight.MaxInjectionDepth)
	}
	if len(c.Markers.Patterns) == 0 {
		return fmt.Errorf("markers.patterns must list at least one marker")
	}
	for i, p := range c.Markers.Patterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("markers.patterns[%d] is empty", i)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", c.Tracing.Exporter)
	}
	if c.Tracing.Enabled {
		if c.Tracing.Exporter == "file" && c.Tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if c.Tracing.Exporter == "otlp" && c.Tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}
