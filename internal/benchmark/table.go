package benchmark

import (
	"context"
	"sort"
)

// defaultRows are the built-in grade benchmarks used when no external
// store is configured.
var defaultRows = []Benchmark{
	{Grade: 1, ExpectedWPM: 60},
	{Grade: 2, ExpectedWPM: 90},
	{Grade: 3, ExpectedWPM: 110},
	{Grade: 4, ExpectedWPM: 130},
	{Grade: 5, ExpectedWPM: 150},
	{Grade: 6, ExpectedWPM: 160},
	{Grade: 7, ExpectedWPM: 170},
	{Grade: 8, ExpectedWPM: 180},
	{Grade: 9, ExpectedWPM: 190},
	{Grade: 10, ExpectedWPM: 200},
	{Grade: 11, ExpectedWPM: 210},
	{Grade: 12, ExpectedWPM: 220},
}

// DefaultRows returns a copy of the built-in benchmarks.
func DefaultRows() []Benchmark {
	return append([]Benchmark(nil), defaultRows...)
}

// Table is an in-memory, read-only Provider.
type Table struct {
	wpm map[int]int
}

// NewTable builds a Table after checking the rows.
func NewTable(rows []Benchmark) (*Table, error) {
	if err := Check(rows); err != nil {
		return nil, err
	}
	t := &Table{wpm: make(map[int]int, len(rows))}
	for _, b := range rows {
		t.wpm[b.Grade] = b.ExpectedWPM
	}
	return t, nil
}

// DefaultTable returns a Table over the built-in benchmarks.
func DefaultTable() *Table {
	t, err := NewTable(defaultRows)
	if err != nil {
		panic(err) // built-in rows are static
	}
	return t
}

func (t *Table) ExpectedWPM(_ context.Context, grade int) (int, error) {
	wpm, ok := t.wpm[grade]
	if !ok {
		return 0, ErrNotFound
	}
	return wpm, nil
}

func (t *Table) Grades(_ context.Context) ([]int, error) {
	grades := make([]int, 0, len(t.wpm))
	for g := range t.wpm {
		grades = append(grades, g)
	}
	sort.Ints(grades)
	return grades, nil
}

// Rows returns the table contents ordered by grade.
func (t *Table) Rows() []Benchmark {
	grades, _ := t.Grades(context.Background())
	rows := make([]Benchmark, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, Benchmark{Grade: g, ExpectedWPM: t.wpm[g]})
	}
	return rows
}
