// Package benchmark supplies expected words-per-minute values by grade.
package benchmark

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/readlevel/internal/scoring"
)

// Benchmark is a grade's expected reading rate.
type Benchmark = scoring.Benchmark

// ErrNotFound is returned when a provider has no row for a grade.
var ErrNotFound = scoring.ErrBenchmarkNotFound

// Provider looks up benchmarks. All implementations satisfy
// scoring.BenchmarkLookup.
type Provider interface {
	ExpectedWPM(ctx context.Context, grade int) (int, error)
	Grades(ctx context.Context) ([]int, error)
}

// Complete verifies that p supplies every grade from 1 to 12.
func Complete(ctx context.Context, p Provider) error {
	grades, err := p.Grades(ctx)
	if err != nil {
		return fmt.Errorf("list grades: %w", err)
	}
	set := scoring.NewGradeSet(grades...)
	var missing []int
	for g := scoring.MinGrade; g <= scoring.MaxGrade; g++ {
		if !set.Has(g) {
			missing = append(missing, g)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("benchmarks missing for grades %v", missing)
	}
	return nil
}

// Check validates a set of benchmark rows: grades 1..12, unique, positive WPM.
func Check(rows []Benchmark) error {
	seen := make(map[int]bool, len(rows))
	for _, b := range rows {
		if !scoring.GradeInRange(b.Grade) {
			return fmt.Errorf("grade %d is outside %d..%d", b.Grade, scoring.MinGrade, scoring.MaxGrade)
		}
		if b.ExpectedWPM <= 0 {
			return fmt.Errorf("grade %d: expected WPM must be positive, got %d", b.Grade, b.ExpectedWPM)
		}
		if seen[b.Grade] {
			return fmt.Errorf("duplicate benchmark for grade %d", b.Grade)
		}
		seen[b.Grade] = true
	}
	return nil
}

func sortedGrades(rows []Benchmark) []int {
	grades := make([]int, 0, len(rows))
	for _, b := range rows {
		grades = append(grades, b.Grade)
	}
	sort.Ints(grades)
	return grades
}
