package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/readlevel/internal/config"
	"github.com/abhisek/readlevel/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "readlevel",
	Short: "Reading assessment scoring engine",
	Long:  "readlevel scores timed oral-reading attempts and assigns a grade-relative reading level.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides READLEVEL_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML or TOML config file (overrides READLEVEL_CONFIG env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(benchmarksCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging installs the process-wide slog logger on stderr.
func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON, _ := cmd.Flags().GetBool("log-json"); asJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// resolveConfigPath returns the --config flag, else the default location.
func resolveConfigPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath()
}

// loadConfig loads the effective configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(resolveConfigPath(cmd))
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from config (READLEVEL_DB included), then the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// openConfiguredStore opens the store named by --db or the config file. An
// unreadable config file only loses its store.path.
func openConfiguredStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := config.LoadFile(resolveConfigPath(cmd))
	if err != nil {
		slog.Warn("ignoring config file", "err", err)
		cfg = nil
	}
	return openStore(cmd, cfg)
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
