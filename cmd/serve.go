package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/benchmark"
	"github.com/abhisek/readlevel/internal/config"
	"github.com/abhisek/readlevel/internal/metrics"
	"github.com/abhisek/readlevel/internal/observe"
	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP scoring service",
	Long: `Run the HTTP scoring service.

The config file is watched and scoring tunables are reloaded on change
without a restart. Without a config file the READLEVEL_* tunables are
re-read from the environment on every request. A config error at startup
is fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfgPath := resolveConfigPath(cmd)
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		provider, closeProvider, err := buildProvider(ctx, cfg, st)
		if err != nil {
			return err
		}
		defer closeProvider()
		if err := benchmark.Complete(ctx, provider); err != nil {
			return fmt.Errorf("benchmarks: %w", err)
		}

		collector := metrics.NewCollector()
		sink := observe.NewMulti(nil,
			observe.NewLogger(nil),
			observe.NewRecorder(st.EventRepo(), nil),
			collector,
		)
		engine := scoring.NewEngine(provider, tunablesSource(ctx, cfgPath, cfg), scoring.WithObserver(sink))

		srv, err := server.New(engine,
			server.Name(cfg.Server.Name),
			server.ID(cfg.Server.ID),
			server.Host(cfg.Server.Host),
			server.Port(cfg.Server.Port),
			server.Results(st.ResultRepo()),
			server.Collector(collector),
		)
		if err != nil {
			return err
		}
		srv.PrintConfig()

		return srv.Run(ctx)
	},
}

// tunablesSource watches the config file at path when it exists. Otherwise
// tunables come from the environment, re-read per call.
func tunablesSource(ctx context.Context, path string, cfg *config.Config) scoring.TunablesSource {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("config file not watched", "path", path, "err", err)
		}
		slog.Info("no config file, reading tunables from the environment per call")
		return config.NewEnvSource(nil)
	}

	live := config.NewLive(cfg)
	go func() {
		if err := live.Watch(ctx, path, nil); err != nil {
			slog.Warn("config watch stopped", "path", path, "err", err)
		}
	}()
	return live
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
}
