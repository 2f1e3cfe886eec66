package scoring

import "math"

// DefaultFluencyCap bounds the normalized fluency before accuracy weighting.
const DefaultFluencyCap = 150.0

// BandThresholds holds the composite ranges and component floors used by
// the revised scorer.
type BandThresholds struct {
	AboveComposite         int     `json:"aboveComposite" yaml:"above_composite" toml:"above_composite"`
	AboveFluency           float64 `json:"aboveFluency" yaml:"above_fluency" toml:"above_fluency"`
	AboveComprehension     float64 `json:"aboveComprehension" yaml:"above_comprehension" toml:"above_comprehension"`
	AtComposite            int     `json:"atComposite" yaml:"at_composite" toml:"at_composite"`
	AtFluency              float64 `json:"atFluency" yaml:"at_fluency" toml:"at_fluency"`
	AtComprehension        float64 `json:"atComprehension" yaml:"at_comprehension" toml:"at_comprehension"`
	SlightlyBelowComposite int     `json:"slightlyBelowComposite" yaml:"slightly_below_composite" toml:"slightly_below_composite"`
}

// DefaultBandThresholds returns the standard revised-scorer bands.
func DefaultBandThresholds() BandThresholds {
	return BandThresholds{
		AboveComposite:         105,
		AboveFluency:           100,
		AboveComprehension:     85,
		AtComposite:            90,
		AtFluency:              85,
		AtComprehension:        75,
		SlightlyBelowComposite: 75,
	}
}

// Tunables are the runtime-configurable scoring constants. A Tunables value
// is a snapshot: build a new one rather than mutating a shared instance.
type Tunables struct {
	FluencyCap        float64        `json:"fluencyCap"`
	AccuracyHardFloor *float64       `json:"accuracyHardFloor"`
	ScoreVersion      Version        `json:"scoreVersion"`
	Bands             BandThresholds `json:"bands"`
}

// DefaultTunables returns cap 150, no hard floor, scorer v1.
func DefaultTunables() Tunables {
	return Tunables{
		FluencyCap:   DefaultFluencyCap,
		ScoreVersion: DefaultVersion,
		Bands:        DefaultBandThresholds(),
	}
}

// WithHardFloor returns a copy of t with the accuracy hard floor set.
func (t Tunables) WithHardFloor(pct float64) Tunables {
	t.AccuracyHardFloor = &pct
	return t
}

// Validate checks numeric ranges. The scorer version is checked by
// SelectScorer, not here.
func (t Tunables) Validate() error {
	if t.FluencyCap <= 0 || math.IsNaN(t.FluencyCap) || math.IsInf(t.FluencyCap, 0) {
		return newError(KindInvalidConfiguration, "fluency cap must be a positive number, got %v", t.FluencyCap)
	}
	if f := t.AccuracyHardFloor; f != nil && (*f < 0 || *f > 100 || math.IsNaN(*f)) {
		return newError(KindInvalidConfiguration, "accuracy hard floor must be within 0..100, got %v", *f)
	}
	b := t.Bands
	if !(b.AboveComposite > b.AtComposite && b.AtComposite > b.SlightlyBelowComposite) {
		return newError(KindInvalidConfiguration,
			"band composites must be strictly descending (above %d, at %d, slightly below %d)",
			b.AboveComposite, b.AtComposite, b.SlightlyBelowComposite)
	}
	if b.AboveFluency < 0 || b.AtFluency < 0 || b.AboveComprehension < 0 || b.AtComprehension < 0 {
		return newError(KindInvalidConfiguration, "band floors must not be negative")
	}
	return nil
}

// TunablesSource supplies a tunables snapshot. Implementations are expected
// to re-read their backing configuration on every call.
type TunablesSource interface {
	Tunables() (Tunables, error)
}

// StaticTunables is a TunablesSource that always returns the same value.
type StaticTunables Tunables

func (s StaticTunables) Tunables() (Tunables, error) {
	return Tunables(s), nil
}
