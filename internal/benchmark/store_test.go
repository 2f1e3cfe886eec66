package benchmark

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/readlevel/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreProviderSeedAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := NewStoreProvider(s.BenchmarkRepo())

	if _, err := p.ExpectedWPM(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: err = %v, want ErrNotFound", err)
	}

	if err := Seed(ctx, s.BenchmarkRepo()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Complete(ctx, p); err != nil {
		t.Fatalf("complete after seed: %v", err)
	}

	wpm, err := p.ExpectedWPM(ctx, 5)
	if err != nil {
		t.Fatalf("grade 5: %v", err)
	}
	if wpm != 150 {
		t.Errorf("grade 5 = %d, want 150", wpm)
	}
}

func TestImportReplacesGrade(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.BenchmarkRepo()

	if err := Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Import(ctx, repo, []Benchmark{{Grade: 5, ExpectedWPM: 140}}); err != nil {
		t.Fatalf("import: %v", err)
	}

	wpm, err := NewStoreProvider(repo).ExpectedWPM(ctx, 5)
	if err != nil {
		t.Fatalf("grade 5: %v", err)
	}
	if wpm != 140 {
		t.Errorf("grade 5 = %d, want 140", wpm)
	}
}

func TestImportRejectsInvalidRows(t *testing.T) {
	s := openTestStore(t)
	err := Import(context.Background(), s.BenchmarkRepo(), []Benchmark{{Grade: 0, ExpectedWPM: 10}})
	if err == nil {
		t.Fatal("expected error")
	}

	rows, _ := s.BenchmarkRepo().List(context.Background())
	if len(rows) != 0 {
		t.Errorf("invalid import wrote %d rows", len(rows))
	}
}
