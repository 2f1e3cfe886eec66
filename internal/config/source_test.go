package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/readlevel/internal/scoring"
)

func TestEnvSourceRereadsPerCall(t *testing.T) {
	clearEnv(t)
	src := NewEnvSource(nil)

	tun, err := src.Tunables()
	if err != nil {
		t.Fatalf("tunables: %v", err)
	}
	if tun.ScoreVersion != scoring.V1 {
		t.Errorf("version: got %q, want v1", tun.ScoreVersion)
	}

	t.Setenv(EnvScoreVersion, "v2")
	t.Setenv(EnvAccuracyHardFloor, "85")

	tun, err = src.Tunables()
	if err != nil {
		t.Fatalf("tunables: %v", err)
	}
	if tun.ScoreVersion != scoring.V2 {
		t.Errorf("version after env change: got %q, want v2", tun.ScoreVersion)
	}
	if tun.AccuracyHardFloor == nil || *tun.AccuracyHardFloor != 85 {
		t.Errorf("hard floor: got %v", tun.AccuracyHardFloor)
	}
}

func TestEnvSourceError(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFluencyCap, "abc")
	if _, err := NewEnvSource(nil).Tunables(); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnvSourceDoesNotMutateBase(t *testing.T) {
	clearEnv(t)
	base := DefaultConfig()
	src := NewEnvSource(base)

	t.Setenv(EnvFluencyCap, "99")
	if _, err := src.Tunables(); err != nil {
		t.Fatalf("tunables: %v", err)
	}
	if base.Scoring.FluencyCap != scoring.DefaultFluencyCap {
		t.Errorf("base mutated: cap = %v", base.Scoring.FluencyCap)
	}
}

func TestLiveSet(t *testing.T) {
	live := NewLive(DefaultConfig())

	next := DefaultConfig()
	next.Scoring.Version = "v2"
	live.Set(next)

	tun, err := live.Tunables()
	if err != nil {
		t.Fatalf("tunables: %v", err)
	}
	if tun.ScoreVersion != scoring.V2 {
		t.Errorf("version: got %q", tun.ScoreVersion)
	}
	if live.Config() != next {
		t.Error("Config() did not return the stored pointer")
	}
}

func TestStatic(t *testing.T) {
	want := scoring.DefaultTunables().WithHardFloor(70)
	got, err := Static(want).Tunables()
	if err != nil {
		t.Fatalf("tunables: %v", err)
	}
	if got.AccuracyHardFloor == nil || *got.AccuracyHardFloor != 70 {
		t.Errorf("got %+v", got)
	}
}

func TestLiveWatchReloads(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", "scoring:\n  version: v1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	live := NewLive(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- live.Watch(ctx, path, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// The watcher starts asynchronously, so keep rewriting until it reports.
	deadline := time.After(5 * time.Second)
	var got *Config
wait:
	for {
		if err := os.WriteFile(path, []byte("scoring:\n  version: v2\n"), 0o600); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		select {
		case got = <-changed:
			break wait
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}

	if got.Scoring.Version != "v2" {
		t.Errorf("reloaded version: got %q", got.Scoring.Version)
	}
	tun, _ := live.Tunables()
	if tun.ScoreVersion != scoring.V2 {
		t.Errorf("live version: got %q", tun.ScoreVersion)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watch did not stop after cancel")
	}
}

func TestLiveWatchKeepsPreviousOnBadReload(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", "scoring:\n  version: v2\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	live := NewLive(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	go live.Watch(ctx, path, nil)
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("scoring:\n  version: v9\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	<-ctx.Done()

	if live.Config() != cfg {
		t.Error("bad reload replaced the active config")
	}
}

// renameSave replaces path the way editors do: write a sibling temp file,
// then rename it over the original.
func renameSave(t *testing.T, path, content string) {
	t.Helper()
	tmp := filepath.Join(filepath.Dir(path), ".config.yaml.swp")
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

func TestWatchFollowsRenameSaves(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", "scoring:\n  version: v1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 16)
	go Watch(ctx, path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	waitFor := func(content string, ok func(*Config) bool) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			renameSave(t, path, content)
			select {
			case c := <-changed:
				if ok(c) {
					return
				}
			case <-time.After(100 * time.Millisecond):
			case <-deadline:
				t.Fatalf("timed out waiting for reload of %q", content)
			}
		}
	}

	waitFor("scoring:\n  version: v2\n", func(c *Config) bool {
		return c.Scoring.Version == "v2"
	})
	// The original inode is gone; the second save must still be seen.
	waitFor("scoring:\n  version: v2\n  fluency_cap: 140\n", func(c *Config) bool {
		return c.Scoring.FluencyCap == 140
	})
}
