package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file at path whenever it changes and passes each
// good Config to onChange. A reload that fails to parse or validate is
// logged and skipped. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file, so saves that
// replace the file by rename keep being seen.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	dir, name := filepath.Split(abs)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("config watch %s: %w", dir, err)
	}
	log := slog.With("path", abs)
	log.Info("config: watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
				reload(abs, log, onChange)
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				log.Warn("config: file moved away, keeping current config")
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string, log *slog.Logger, onChange func(*Config)) {
	cfg, err := Load(path)
	if err != nil {
		log.Error("config: reload failed, keeping current config", "err", err)
		return
	}
	log.Info("config: reloaded",
		"version", cfg.Scoring.Version,
		"fluency_cap", cfg.Scoring.FluencyCap)
	onChange(cfg)
}
