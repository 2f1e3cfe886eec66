package scoring

// Legacy composite thresholds (inclusive lower bounds).
const (
	legacyAbove         = 150
	legacyAt            = 120
	legacySlightlyBelow = 90
)

// LegacyScorer is the original v1 scorer: equal-weight composite and fixed
// composite-only bands. It ignores the band floors and the accuracy hard
// floor.
type LegacyScorer struct{}

func (LegacyScorer) Version() Version { return V1 }

func (LegacyScorer) Score(m Metrics, _ Tunables) *ScoringResult {
	// Fluency stays unrounded in v1.
	fluency := m.CappedFluencyNormalized * (m.AccuracyPercent / 100)
	composite := round(fluency*0.5 + m.CompVocabScore*0.5)

	res := baseResult(V1, m)
	res.FluencyScore = fluency
	res.CompositeScore = composite
	res.ReadingLevelLabel = LegacyLabel(composite)
	return res
}

// LegacyLabel maps a v1 composite to a label.
func LegacyLabel(composite int) Label {
	switch {
	case composite >= legacyAbove:
		return LabelAbove
	case composite >= legacyAt:
		return LabelAt
	case composite >= legacySlightlyBelow:
		return LabelSlightlyBelow
	default:
		return LabelBelow
	}
}
