package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/readlevel/internal/config"
	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
)

func TestDistributionFillsEveryLabel(t *testing.T) {
	rows := distribution([]store.LabelCount{
		{Version: "v2", Label: string(scoring.LabelBelow), Count: 1},
		{Version: "v1", Label: string(scoring.LabelAt), Count: 3},
		{Version: "v1", Label: string(scoring.LabelAbove), Count: 1},
		{Version: "v2", Label: string(scoring.LabelAt), Count: 3},
	})

	if len(rows) != 8 {
		t.Fatalf("rows = %d, want 4 labels x 2 versions", len(rows))
	}
	want := scoring.AllLabels()
	for i, r := range rows {
		wantVersion := "v1"
		if i >= 4 {
			wantVersion = "v2"
		}
		if r.Version != wantVersion || r.Label != want[i%4] {
			t.Errorf("row %d = %s/%s, want %s/%s", i, r.Version, r.Label, wantVersion, want[i%4])
		}
	}
	if rows[1].Count != 3 || rows[1].Share != 75 {
		t.Errorf("v1 At = %+v, want 3 / 75%%", rows[1])
	}
	if rows[2].Count != 0 || rows[2].Share != 0 {
		t.Errorf("v1 Slightly Below = %+v, want zero", rows[2])
	}
}

func TestDistributionKeepsUnknownLabelsLast(t *testing.T) {
	rows := distribution([]store.LabelCount{
		{Version: "v1", Label: "Legacy Band", Count: 1},
		{Version: "v1", Label: string(scoring.LabelBelow), Count: 1},
	})
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if last := rows[4]; last.Label != "Legacy Band" || last.Share != 50 {
		t.Errorf("last row = %+v", last)
	}
}

func TestPrintEvents(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	missed := false
	repo := s.EventRepo()
	ctx := context.Background()
	events := []store.ScoringEventData{
		{Version: "v1", Grade: 3, CompositeScore: 120, Label: string(scoring.LabelAbove), CapEngaged: true},
		{Version: "v2", Grade: 5, CompositeScore: 95, Label: string(scoring.LabelSlightlyBelow),
			FluencyFloorMet: &missed, ComprehensionFloorMet: boolPtr(true), AccuracyHardFloorApplied: true},
	}
	for _, e := range events {
		if err := repo.AppendScoringEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryScoringEvents(ctx, store.QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var buf bytes.Buffer
	printEvents(&buf, got)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header, rule and 2 events:\n%s", len(lines), buf.String())
	}
	// Newest first.
	if !strings.Contains(lines[2], "hard-floor,fluency-floor-missed") || strings.Contains(lines[2], "comprehension-floor-missed") {
		t.Errorf("v2 event flags: %q", lines[2])
	}
	if !strings.Contains(lines[3], string(scoring.LabelAbove)) || !strings.HasSuffix(lines[3], "cap") {
		t.Errorf("v1 event: %q", lines[3])
	}
}

func boolPtr(b bool) *bool { return &b }

func TestTunablesSourceWithoutFileReadsEnvPerCall(t *testing.T) {
	t.Setenv(config.EnvScoreVersion, "v1")
	t.Setenv(config.EnvAccuracyHardFloor, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := tunablesSource(ctx, filepath.Join(t.TempDir(), "missing.yaml"), config.DefaultConfig())
	if _, ok := src.(*config.EnvSource); !ok {
		t.Fatalf("source = %T, want *config.EnvSource", src)
	}

	tun, err := src.Tunables()
	if err != nil || tun.ScoreVersion != scoring.V1 {
		t.Fatalf("first call = %v, %v", tun.ScoreVersion, err)
	}

	t.Setenv(config.EnvScoreVersion, "v2")
	tun, err = src.Tunables()
	if err != nil || tun.ScoreVersion != scoring.V2 {
		t.Errorf("after env change = %v, %v", tun.ScoreVersion, err)
	}
}

func TestTunablesSourceWithFileIsLive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scoring:\n  version: v2\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cfg := config.DefaultConfig()
	src := tunablesSource(ctx, path, cfg)
	live, ok := src.(*config.Live)
	if !ok {
		t.Fatalf("source = %T, want *config.Live", src)
	}
	if live.Config() != cfg {
		t.Error("live source does not start from the loaded config")
	}
}
