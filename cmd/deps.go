package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/readlevel/internal/benchmark"
	"github.com/abhisek/readlevel/internal/config"
	"github.com/abhisek/readlevel/internal/store"
)

// buildProvider returns the benchmark provider selected by cfg. The
// returned cleanup func is always non-nil.
func buildProvider(ctx context.Context, cfg *config.Config, st *store.Store) (benchmark.Provider, func(), error) {
	noop := func() {}

	var p benchmark.Provider
	switch cfg.Benchmarks.Source {
	case config.SourceTable:
		p = benchmark.DefaultTable()
	case config.SourceStore:
		if st == nil {
			return nil, noop, fmt.Errorf("benchmark source %q needs a database", config.SourceStore)
		}
		p = benchmark.NewStoreProvider(st.BenchmarkRepo())
	case config.SourceHTTP:
		p = benchmark.NewHTTPProvider(cfg.Benchmarks.URL, cfg.Benchmarks.Path)
	default:
		return nil, noop, fmt.Errorf("unknown benchmark source %q", cfg.Benchmarks.Source)
	}

	if cfg.Benchmarks.RedisAddr == "" {
		return p, noop, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Benchmarks.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		fmt.Fprintf(os.Stderr, "warning: redis at %s unavailable, benchmark cache disabled: %v\n",
			cfg.Benchmarks.RedisAddr, err)
		return p, noop, nil
	}
	slog.Info("benchmark cache enabled", "redis", cfg.Benchmarks.RedisAddr, "ttl", cfg.Benchmarks.CacheTTL)
	return benchmark.NewCached(p, rdb, cfg.Benchmarks.CacheTTL, nil), func() { rdb.Close() }, nil
}
