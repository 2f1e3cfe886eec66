package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var scoringEventColumns = []string{
	"id", "sequence", "timestamp", "version", "grade", "expected_wpm",
	"fluency_score", "comp_vocab_score", "composite_score", "label",
	"fluency_floor_met", "comprehension_floor_met", "cap_engaged",
	"accuracy_hard_floor_applied",
}

// eventRepo implements EventRepo backed by the scoring_events table and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendScoringEvent(ctx context.Context, data ScoringEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableScoringEvents).
		Columns(scoringEventColumns[1:]...).
		Values(
			seqNum, formatTime(time.Now()), data.Version, data.Grade, data.ExpectedWPM,
			data.FluencyScore, data.CompVocabScore, data.CompositeScore, data.Label,
			nullBool(data.FluencyFloorMet), nullBool(data.ComprehensionFloorMet),
			data.CapEngaged, data.AccuracyHardFloorApplied,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save scoring event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryScoringEvents(ctx context.Context, opts QueryOpts) ([]ScoringEventRecord, error) {
	b := builder()
	sel := b.Select(scoringEventColumns...).
		From(b.Table(tableScoringEvents)).
		OrderBy(entsql.Desc("sequence"))
	if p := eventPredicate(opts); p != nil {
		sel = sel.Where(p)
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scoring events: %w", err)
	}
	defer rows.Close()

	var out []ScoringEventRecord
	for rows.Next() {
		var (
			rec               ScoringEventRecord
			ts                string
			fluency, comprehn sql.NullBool
		)
		err := rows.Scan(
			&rec.ID, &rec.Sequence, &ts, &rec.Version, &rec.Grade, &rec.ExpectedWPM,
			&rec.FluencyScore, &rec.CompVocabScore, &rec.CompositeScore, &rec.Label,
			&fluency, &comprehn, &rec.CapEngaged, &rec.AccuracyHardFloorApplied,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scoring event: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		rec.FluencyFloorMet = boolPtr(fluency)
		rec.ComprehensionFloorMet = boolPtr(comprehn)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) LabelDistribution(ctx context.Context, opts QueryOpts) ([]LabelCount, error) {
	b := builder()
	sel := b.Select("version", "label", entsql.Count("*")).
		From(b.Table(tableScoringEvents)).
		GroupBy("version", "label").
		OrderBy("version", "label")
	if p := eventPredicate(opts); p != nil {
		sel = sel.Where(p)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("label distribution: %w", err)
	}
	defer rows.Close()

	var out []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Version, &lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// eventPredicate builds the WHERE clause for opts, or nil if unfiltered.
func eventPredicate(opts QueryOpts) *entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", formatTime(opts.To)))
	}
	if opts.Version != "" {
		preds = append(preds, entsql.EQ("version", opts.Version))
	}
	if len(preds) == 0 {
		return nil
	}
	return entsql.And(preds...)
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	v := nb.Bool
	return &v
}
