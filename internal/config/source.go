package config

import (
	"context"
	"sync/atomic"

	"github.com/abhisek/readlevel/internal/scoring"
)

// EnvSource re-reads the environment on every call and overlays it on a
// base Config. Errors surface as INVALID_CONFIGURATION from the engine.
type EnvSource struct {
	base *Config
}

// NewEnvSource returns an EnvSource over base. A nil base uses defaults.
func NewEnvSource(base *Config) *EnvSource {
	if base == nil {
		base = DefaultConfig()
	}
	return &EnvSource{base: base.Clone()}
}

func (s *EnvSource) Tunables() (scoring.Tunables, error) {
	cfg := s.base.Clone()
	if err := ApplyEnv(cfg); err != nil {
		return scoring.Tunables{}, err
	}
	return cfg.Tunables(), nil
}

// Live holds the last good Config and swaps it atomically on reload.
type Live struct {
	cur atomic.Pointer[Config]
}

// NewLive returns a Live source starting at cfg.
func NewLive(cfg *Config) *Live {
	l := &Live{}
	l.cur.Store(cfg)
	return l
}

// Config returns the current configuration. Callers must not mutate it.
func (l *Live) Config() *Config {
	return l.cur.Load()
}

// Set replaces the current configuration.
func (l *Live) Set(cfg *Config) {
	l.cur.Store(cfg)
}

func (l *Live) Tunables() (scoring.Tunables, error) {
	return l.cur.Load().Tunables(), nil
}

// Watch reloads the file at path on change until ctx is cancelled. A bad
// reload keeps the previous configuration. onChange, if non-nil, is called
// after each successful swap.
func (l *Live) Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return Watch(ctx, path, func(cfg *Config) {
		l.Set(cfg)
		if onChange != nil {
			onChange(cfg)
		}
	})
}

// Static returns a source that always yields t.
func Static(t scoring.Tunables) scoring.TunablesSource {
	return scoring.StaticTunables(t)
}
