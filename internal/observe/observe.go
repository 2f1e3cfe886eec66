// Package observe provides the scoring observability sinks: a structured
// log line per call, a persisted event per call, and a fan-out.
package observe

import (
	"context"
	"log/slog"

	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
)

// Logger writes one "scoring" record per observation.
type Logger struct {
	log *slog.Logger
}

// NewLogger returns a Logger. A nil log uses slog.Default().
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) Observe(ctx context.Context, obs scoring.Observation) {
	attrs := []slog.Attr{
		slog.String("version", string(obs.Version)),
		slog.Int("grade", obs.Grade),
		slog.Int("expected_wpm", obs.ExpectedWPM),
		slog.Float64("fluency_score", obs.FluencyScore),
		slog.Float64("comp_vocab_score", obs.CompVocabScore),
		slog.Int("composite_score", obs.CompositeScore),
		slog.String("label", string(obs.Label)),
		slog.Bool("cap_engaged", obs.CapEngaged),
		slog.Bool("accuracy_hard_floor_applied", obs.AccuracyHardFloorApplied),
	}
	if fm := obs.FloorsMet; fm != nil {
		attrs = append(attrs, slog.Group("floors_met",
			slog.Bool("fluency", fm.Fluency),
			slog.Bool("comprehension", fm.Comprehension),
		))
	}
	l.log.LogAttrs(ctx, slog.LevelInfo, "scoring", attrs...)
}

// Recorder appends each observation to the event log. Write failures are
// logged and dropped.
type Recorder struct {
	events store.EventRepo
	log    *slog.Logger
}

// NewRecorder returns a Recorder over events. A nil log uses slog.Default().
func NewRecorder(events store.EventRepo, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{events: events, log: log}
}

func (r *Recorder) Observe(ctx context.Context, obs scoring.Observation) {
	if err := r.events.AppendScoringEvent(ctx, EventData(obs)); err != nil {
		r.log.Warn("failed to record scoring event", "error", err)
	}
}

// EventData converts an observation to its persisted form.
func EventData(obs scoring.Observation) store.ScoringEventData {
	data := store.ScoringEventData{
		Version:                  string(obs.Version),
		Grade:                    obs.Grade,
		ExpectedWPM:              obs.ExpectedWPM,
		FluencyScore:             obs.FluencyScore,
		CompVocabScore:           obs.CompVocabScore,
		CompositeScore:           obs.CompositeScore,
		Label:                    string(obs.Label),
		CapEngaged:               obs.CapEngaged,
		AccuracyHardFloorApplied: obs.AccuracyHardFloorApplied,
	}
	if fm := obs.FloorsMet; fm != nil {
		f, c := fm.Fluency, fm.Comprehension
		data.FluencyFloorMet = &f
		data.ComprehensionFloorMet = &c
	}
	return data
}

// Multi fans an observation out to every sink in order. A panicking sink
// is logged and skipped so the remaining sinks still run.
type Multi struct {
	sinks []scoring.Observer
	log   *slog.Logger
}

// NewMulti returns a fan-out over sinks, skipping nils.
func NewMulti(log *slog.Logger, sinks ...scoring.Observer) *Multi {
	if log == nil {
		log = slog.Default()
	}
	m := &Multi{log: log}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *Multi) Observe(ctx context.Context, obs scoring.Observation) {
	for _, s := range m.sinks {
		m.observe(ctx, s, obs)
	}
}

func (m *Multi) observe(ctx context.Context, s scoring.Observer, obs scoring.Observation) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("observability sink panicked", "panic", r)
		}
	}()
	s.Observe(ctx, obs)
}
