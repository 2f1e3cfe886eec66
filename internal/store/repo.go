package store

import (
	"context"
	"time"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After (events only)
	Before  int64     // sequence < Before (events only)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Version string    // scorer version filter ("" = all)
}

// BenchmarkRow is one grade's reference reading rate.
type BenchmarkRow struct {
	Grade       int
	ExpectedWPM int
	UpdatedAt   time.Time
}

// BenchmarkRepo manages grade benchmarks.
type BenchmarkRepo interface {
	// Upsert inserts rows, replacing existing rows for the same grade.
	Upsert(ctx context.Context, rows []BenchmarkRow) error

	// Get returns the row for grade, or nil if none exists.
	Get(ctx context.Context, grade int) (*BenchmarkRow, error)

	// List returns all rows ordered by grade.
	List(ctx context.Context) ([]BenchmarkRow, error)
}

// ResultRecord is a persisted scoring result.
type ResultRecord struct {
	ID                       string
	AssessmentID             string
	Grade                    int
	Version                  string
	WPM                      int
	AccuracyPercent          float64
	FluencyScore             float64
	CompVocabScore           float64
	CompositeScore           int
	Label                    string
	CapEngaged               bool
	AccuracyHardFloorApplied bool
	CreatedAt                time.Time
}

// ResultRepo stores scoring results. Results are insert-only.
type ResultRepo interface {
	// Save inserts a new result. A zero CreatedAt is set to now.
	Save(ctx context.Context, rec *ResultRecord) error

	// Get returns the result with id, or nil if none exists.
	Get(ctx context.Context, id string) (*ResultRecord, error)

	// List returns results newest first.
	List(ctx context.Context, opts QueryOpts) ([]ResultRecord, error)
}

// ScoringEventData captures the observability payload of one scoring call.
type ScoringEventData struct {
	Version                  string
	Grade                    int
	ExpectedWPM              int
	FluencyScore             float64
	CompVocabScore           float64
	CompositeScore           int
	Label                    string
	FluencyFloorMet          *bool
	ComprehensionFloorMet    *bool
	CapEngaged               bool
	AccuracyHardFloorApplied bool
}

// ScoringEventRecord is a ScoringEventData read back with its sequence.
type ScoringEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ScoringEventData
}

// LabelCount is one bucket of the label distribution.
type LabelCount struct {
	Version string
	Label   string
	Count   int
}

// EventRepo provides append and query access to scoring events.
type EventRepo interface {
	// AppendScoringEvent records one scoring call.
	AppendScoringEvent(ctx context.Context, data ScoringEventData) error

	// QueryScoringEvents returns events newest first.
	QueryScoringEvents(ctx context.Context, opts QueryOpts) ([]ScoringEventRecord, error)

	// LabelDistribution counts events by version and label.
	LabelDistribution(ctx context.Context, opts QueryOpts) ([]LabelCount, error)
}
