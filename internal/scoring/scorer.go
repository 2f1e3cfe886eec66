package scoring

import "math"

// Scorer turns metrics into a result. Implementations are stateless.
type Scorer interface {
	Version() Version
	Score(m Metrics, t Tunables) *ScoringResult
}

// SelectScorer returns the scorer for v. Unknown versions are a
// configuration error; there is no fallback.
func SelectScorer(v Version) (Scorer, error) {
	switch v {
	case V1:
		return LegacyScorer{}, nil
	case V2:
		return RevisedScorer{}, nil
	default:
		return nil, newError(KindInvalidConfiguration, "unknown score version %q (want %q or %q)", v, V1, V2)
	}
}

// ScoreWith scores precomputed metrics with the scorer named by t.
func ScoreWith(m Metrics, t Tunables) (*ScoringResult, error) {
	s, err := SelectScorer(t.ScoreVersion)
	if err != nil {
		return nil, err
	}
	return s.Score(m, t), nil
}

func round(v float64) int {
	return int(math.Round(v))
}

func baseResult(v Version, m Metrics) *ScoringResult {
	return &ScoringResult{
		Version:         v,
		WPM:             m.WPM,
		AccuracyPercent: m.AccuracyPercent,
		CompVocabScore:  m.CompVocabScore,
		CapEngaged:      m.CapEngaged,
	}
}
