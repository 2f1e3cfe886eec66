package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// benchmarkRepo implements BenchmarkRepo over the benchmarks table.
type benchmarkRepo struct {
	db *sql.DB
}

func (r *benchmarkRepo) Upsert(ctx context.Context, rows []BenchmarkRow) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()

	ins := builder().Insert(tableBenchmarks).
		Columns("grade", "expected_wpm", "updated_at")
	for _, row := range rows {
		at := row.UpdatedAt
		if at.IsZero() {
			at = now
		}
		ins = ins.Values(row.Grade, row.ExpectedWPM, formatTime(at))
	}
	ins = ins.OnConflict(
		entsql.ConflictColumns("grade"),
		entsql.ResolveWithNewValues(),
	)

	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert benchmarks: %w", err)
	}
	return nil
}

func (r *benchmarkRepo) Get(ctx context.Context, grade int) (*BenchmarkRow, error) {
	b := builder()
	query, args := b.Select("grade", "expected_wpm", "updated_at").
		From(b.Table(tableBenchmarks)).
		Where(entsql.EQ("grade", grade)).
		Query()

	row, err := scanBenchmark(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get benchmark for grade %d: %w", grade, err)
	}
	return row, nil
}

func (r *benchmarkRepo) List(ctx context.Context) ([]BenchmarkRow, error) {
	b := builder()
	query, args := b.Select("grade", "expected_wpm", "updated_at").
		From(b.Table(tableBenchmarks)).
		OrderBy("grade").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list benchmarks: %w", err)
	}
	defer rows.Close()

	var out []BenchmarkRow
	for rows.Next() {
		row, err := scanBenchmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan benchmark: %w", err)
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBenchmark(s scanner) (*BenchmarkRow, error) {
	var (
		row     BenchmarkRow
		updated string
	)
	if err := s.Scan(&row.Grade, &row.ExpectedWPM, &updated); err != nil {
		return nil, err
	}
	row.UpdatedAt = parseTime(updated)
	return &row, nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
