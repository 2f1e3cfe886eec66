package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/readlevel/internal/scoring"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 1330
	DefaultBenchmarkSource = SourceTable
	DefaultCacheTTL        = 10 * time.Minute
)

// Benchmark sources.
const (
	SourceTable = "table"
	SourceStore = "store"
	SourceHTTP  = "http"
)

// Config is the top-level configuration.
type Config struct {
	Scoring    ScoringConfig    `yaml:"scoring" toml:"scoring" json:"scoring"`
	Server     ServerConfig     `yaml:"server" toml:"server" json:"server"`
	Benchmarks BenchmarksConfig `yaml:"benchmarks" toml:"benchmarks" json:"benchmarks"`
	Store      StoreConfig      `yaml:"store" toml:"store" json:"store"`
}

// ScoringConfig holds the runtime scoring tunables.
type ScoringConfig struct {
	// Version selects the scorer: v1 (legacy) or v2 (revised).
	Version string `yaml:"version" toml:"version" json:"version"`

	// FluencyCap bounds normalized fluency before accuracy weighting.
	FluencyCap float64 `yaml:"fluency_cap" toml:"fluency_cap" json:"fluencyCap"`

	// AccuracyHardFloor downgrades the v2 label one step when accuracy is
	// below it. Unset means disabled.
	AccuracyHardFloor *float64 `yaml:"accuracy_hard_floor" toml:"accuracy_hard_floor" json:"accuracyHardFloor"`

	// Bands are the v2 composite ranges and component floors.
	Bands scoring.BandThresholds `yaml:"bands" toml:"bands" json:"bands"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Host string `yaml:"host" toml:"host" json:"host"`
	Port int    `yaml:"port" toml:"port" json:"port"`

	// Name and ID identify this instance when several run side by side.
	// Both are generated at startup when empty.
	Name string `yaml:"name" toml:"name" json:"name"`
	ID   string `yaml:"id" toml:"id" json:"id"`
}

// BenchmarksConfig selects where grade benchmarks come from.
type BenchmarksConfig struct {
	// Source is one of: table | store | http.
	Source string `yaml:"source" toml:"source" json:"source"`

	// URL and Path configure the http source. Path is a gjson path to the
	// benchmark array in the response.
	URL  string `yaml:"url" toml:"url" json:"url"`
	Path string `yaml:"path" toml:"path" json:"path"`

	// RedisAddr enables the redis read-through cache when set.
	RedisAddr string        `yaml:"redis_addr" toml:"redis_addr" json:"redisAddr"`
	CacheTTL  time.Duration `yaml:"cache_ttl" toml:"cache_ttl" json:"cacheTTL"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	// Path is the database file. Empty means the XDG data directory.
	Path string `yaml:"path" toml:"path" json:"path"`
}

// DefaultConfig returns a Config with built-in defaults.
func DefaultConfig() *Config {
	t := scoring.DefaultTunables()
	return &Config{
		Scoring: ScoringConfig{
			Version:    string(t.ScoreVersion),
			FluencyCap: t.FluencyCap,
			Bands:      t.Bands,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Benchmarks: BenchmarksConfig{
			Source:   DefaultBenchmarkSource,
			CacheTTL: DefaultCacheTTL,
		},
	}
}

// Tunables converts the scoring section to a scoring.Tunables snapshot.
func (c *Config) Tunables() scoring.Tunables {
	t := scoring.Tunables{
		FluencyCap:   c.Scoring.FluencyCap,
		ScoreVersion: scoring.ParseVersion(c.Scoring.Version),
		Bands:        c.Scoring.Bands,
	}
	if f := c.Scoring.AccuracyHardFloor; f != nil {
		v := *f
		t.AccuracyHardFloor = &v
	}
	return t
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if f := c.Scoring.AccuracyHardFloor; f != nil {
		v := *f
		out.Scoring.AccuracyHardFloor = &v
	}
	return &out
}

// Load builds a Config from defaults, the file at path and the environment,
// then validates it. A missing file is not an error. An empty path skips
// the file layer.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads defaults plus the file at path without the environment
// overlay or validation.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config: parse toml: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	return cfg, nil
}

// Validate checks the tunables and structural constraints.
func Validate(cfg *Config) error {
	t := cfg.Tunables()
	if _, err := scoring.SelectScorer(t.ScoreVersion); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1..65535, got %d", cfg.Server.Port)
	}
	switch cfg.Benchmarks.Source {
	case SourceTable, SourceStore:
	case SourceHTTP:
		if cfg.Benchmarks.URL == "" {
			return fmt.Errorf("benchmarks.url is required when benchmarks.source is %q", SourceHTTP)
		}
	default:
		return fmt.Errorf("benchmarks.source: unknown source %q", cfg.Benchmarks.Source)
	}
	if cfg.Benchmarks.CacheTTL < 0 {
		return fmt.Errorf("benchmarks.cache_ttl must not be negative")
	}
	return nil
}

// DefaultPath resolves the config file path in priority order:
// 1. READLEVEL_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/readlevel/config.yaml
// 3. ~/.config/readlevel/config.yaml
func DefaultPath() string {
	if p := os.Getenv("READLEVEL_CONFIG"); p != "" {
		return p
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "readlevel", "config.yaml")
}
