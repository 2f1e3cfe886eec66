package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var resultColumns = []string{
	"id", "assessment_id", "grade", "version", "wpm", "accuracy_percent",
	"fluency_score", "comp_vocab_score", "composite_score", "label",
	"cap_engaged", "accuracy_hard_floor_applied", "created_at",
}

// resultRepo implements ResultRepo over the scoring_results table.
type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Save(ctx context.Context, rec *ResultRecord) error {
	if rec.ID == "" {
		return errors.New("save result: empty id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query, args := builder().Insert(tableScoringResults).
		Columns(resultColumns...).
		Values(
			rec.ID, rec.AssessmentID, rec.Grade, rec.Version, rec.WPM, rec.AccuracyPercent,
			rec.FluencyScore, rec.CompVocabScore, rec.CompositeScore, rec.Label,
			rec.CapEngaged, rec.AccuracyHardFloorApplied, formatTime(rec.CreatedAt),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save result %s: %w", rec.ID, err)
	}
	return nil
}

func (r *resultRepo) Get(ctx context.Context, id string) (*ResultRecord, error) {
	b := builder()
	query, args := b.Select(resultColumns...).
		From(b.Table(tableScoringResults)).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanResult(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", id, err)
	}
	return rec, nil
}

func (r *resultRepo) List(ctx context.Context, opts QueryOpts) ([]ResultRecord, error) {
	b := builder()
	sel := b.Select(resultColumns...).
		From(b.Table(tableScoringResults)).
		OrderBy(entsql.Desc("created_at"))

	var preds []*entsql.Predicate
	if opts.Version != "" {
		preds = append(preds, entsql.EQ("version", opts.Version))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", formatTime(opts.To)))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanResult(s scanner) (*ResultRecord, error) {
	var (
		rec     ResultRecord
		created string
	)
	err := s.Scan(
		&rec.ID, &rec.AssessmentID, &rec.Grade, &rec.Version, &rec.WPM, &rec.AccuracyPercent,
		&rec.FluencyScore, &rec.CompVocabScore, &rec.CompositeScore, &rec.Label,
		&rec.CapEngaged, &rec.AccuracyHardFloorApplied, &created,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTime(created)
	return &rec, nil
}
