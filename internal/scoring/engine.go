package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBenchmarkNotFound is returned by a BenchmarkLookup that has no row
// for a grade.
var ErrBenchmarkNotFound = errors.New("benchmark not found")

// BenchmarkLookup resolves the expected WPM for a grade.
type BenchmarkLookup interface {
	ExpectedWPM(ctx context.Context, grade int) (int, error)
}

// Observation is what the engine reports to the observability sink after
// every successful scoring call.
type Observation struct {
	Version                  Version
	Grade                    int
	ExpectedWPM              int
	FluencyScore             float64
	CompVocabScore           float64
	CompositeScore           int
	Label                    Label
	FloorsMet                *FloorsMet
	CapEngaged               bool
	AccuracyHardFloorApplied bool
}

// Observer receives observations. Implementations must not block for long
// and must not fail scoring; errors are theirs to handle.
type Observer interface {
	Observe(ctx context.Context, obs Observation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, obs Observation)

func (f ObserverFunc) Observe(ctx context.Context, obs Observation) { f(ctx, obs) }

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Observation) {}

// Engine runs the scoring pipeline: validate, look up the benchmark,
// compute metrics, select a scorer and score. It holds no mutable state.
type Engine struct {
	benchmarks BenchmarkLookup
	tunables   TunablesSource
	observer   Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the observability sink.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates an Engine. Tunables are read from src on every call.
func NewEngine(benchmarks BenchmarkLookup, src TunablesSource, opts ...Option) *Engine {
	e := &Engine{
		benchmarks: benchmarks,
		tunables:   src,
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score scores a single attempt and reports it to the observer.
func (e *Engine) Score(ctx context.Context, in AttemptInput) (*ScoringResult, error) {
	res, publish, err := e.ScoreDeferred(ctx, in)
	if err != nil {
		return nil, err
	}
	publish(ctx)
	return res, nil
}

// ScoreDeferred scores a single attempt without reporting it. The returned
// publish func sends the observation; a caller that fails to act on the
// result drops it instead, so observers only see attempts that completed.
func (e *Engine) ScoreDeferred(ctx context.Context, in AttemptInput) (*ScoringResult, func(context.Context), error) {
	tun, err := e.snapshot()
	if err != nil {
		return nil, nil, err
	}

	if err := ValidateAttempt(in); err != nil {
		return nil, nil, err
	}
	if err := ValidateGrade(in.StudentGrade, nil); err != nil {
		return nil, nil, err
	}
	expected, err := e.benchmarks.ExpectedWPM(ctx, in.StudentGrade)
	if err != nil {
		if errors.Is(err, ErrBenchmarkNotFound) {
			return nil, nil, &Error{Kind: KindInvalidGradeLevel, Msg: fmt.Sprintf("no benchmark for grade %d", in.StudentGrade), Err: err}
		}
		return nil, nil, fmt.Errorf("look up benchmark for grade %d: %w", in.StudentGrade, err)
	}
	if expected <= 0 {
		return nil, nil, newError(KindInvalidGradeLevel, "benchmark for grade %d has non-positive WPM %d", in.StudentGrade, expected)
	}

	scorer, err := SelectScorer(tun.ScoreVersion)
	if err != nil {
		return nil, nil, err
	}

	m := ComputeMetrics(in, expected, tun.FluencyCap)
	res := scorer.Score(m, tun)

	obs := Observation{
		Version:                  res.Version,
		Grade:                    in.StudentGrade,
		ExpectedWPM:              expected,
		FluencyScore:             res.FluencyScore,
		CompVocabScore:           res.CompVocabScore,
		CompositeScore:           res.CompositeScore,
		Label:                    res.ReadingLevelLabel,
		FloorsMet:                res.FloorsMet,
		CapEngaged:               res.CapEngaged,
		AccuracyHardFloorApplied: res.AccuracyHardFloorApplied,
	}
	var once sync.Once
	publish := func(ctx context.Context) {
		once.Do(func() { e.observer.Observe(ctx, obs) })
	}
	return res, publish, nil
}

// Tunables returns the snapshot the next call would use.
func (e *Engine) Tunables() (Tunables, error) {
	return e.snapshot()
}

func (e *Engine) snapshot() (Tunables, error) {
	tun, err := e.tunables.Tunables()
	if err != nil {
		if KindOf(err) == KindInvalidConfiguration {
			return Tunables{}, err
		}
		return Tunables{}, &Error{Kind: KindInvalidConfiguration, Msg: "load tunables", Err: err}
	}
	if err := tun.Validate(); err != nil {
		return Tunables{}, err
	}
	return tun, nil
}
