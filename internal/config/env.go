package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables that override file settings.
const (
	EnvScoreVersion      = "READLEVEL_SCORE_VERSION"
	EnvFluencyCap        = "READLEVEL_FLUENCY_CAP"
	EnvAccuracyHardFloor = "READLEVEL_ACCURACY_HARD_FLOOR"
	EnvDB                = "READLEVEL_DB"
	EnvHost              = "READLEVEL_HOST"
	EnvPort              = "READLEVEL_PORT"
	EnvBenchmarkURL      = "READLEVEL_BENCHMARK_URL"
	EnvRedisAddr         = "READLEVEL_REDIS_ADDR"
)

// ApplyEnv overlays READLEVEL_* variables onto cfg. Empty variables are
// ignored. READLEVEL_ACCURACY_HARD_FLOOR=none disables a floor set in the
// config file.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvScoreVersion); v != "" {
		cfg.Scoring.Version = v
	}
	if v := os.Getenv(EnvFluencyCap); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFluencyCap, err)
		}
		cfg.Scoring.FluencyCap = f
	}
	if v := strings.TrimSpace(os.Getenv(EnvAccuracyHardFloor)); v != "" {
		if strings.EqualFold(v, "none") {
			cfg.Scoring.AccuracyHardFloor = nil
		} else {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", EnvAccuracyHardFloor, err)
			}
			cfg.Scoring.AccuracyHardFloor = &f
		}
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv(EnvBenchmarkURL); v != "" {
		cfg.Benchmarks.URL = v
		cfg.Benchmarks.Source = SourceHTTP
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Benchmarks.RedisAddr = v
	}
	return nil
}
