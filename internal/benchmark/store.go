package benchmark

import (
	"context"
	"fmt"

	"github.com/abhisek/readlevel/internal/store"
)

// StoreProvider reads benchmarks from the SQLite store on every lookup, so
// an import takes effect without a restart.
type StoreProvider struct {
	repo store.BenchmarkRepo
}

// NewStoreProvider returns a Provider over repo.
func NewStoreProvider(repo store.BenchmarkRepo) *StoreProvider {
	return &StoreProvider{repo: repo}
}

func (p *StoreProvider) ExpectedWPM(ctx context.Context, grade int) (int, error) {
	row, err := p.repo.Get(ctx, grade)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, ErrNotFound
	}
	return row.ExpectedWPM, nil
}

func (p *StoreProvider) Grades(ctx context.Context) ([]int, error) {
	rows, err := p.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	grades := make([]int, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.Grade)
	}
	return grades, nil
}

// Import validates rows and writes them to repo, replacing existing grades.
func Import(ctx context.Context, repo store.BenchmarkRepo, rows []Benchmark) error {
	if err := Check(rows); err != nil {
		return err
	}
	out := make([]store.BenchmarkRow, 0, len(rows))
	for _, b := range rows {
		out = append(out, store.BenchmarkRow{Grade: b.Grade, ExpectedWPM: b.ExpectedWPM})
	}
	if err := repo.Upsert(ctx, out); err != nil {
		return fmt.Errorf("import benchmarks: %w", err)
	}
	return nil
}

// Seed writes the built-in benchmarks to repo.
func Seed(ctx context.Context, repo store.BenchmarkRepo) error {
	return Import(ctx, repo, DefaultRows())
}
