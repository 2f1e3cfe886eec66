package scoring

import "math"

// TypeScore counts correct answers for one question type.
type TypeScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent returns 100*correct/total, or 0 when there are no questions.
func (s TypeScore) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

// Metrics are the intermediate values shared by both scorers.
//
// AccuracyPercent and CompVocabScore keep full precision. Each scorer
// rounds only where its own formula says so; rounding here would move
// results by one point at band boundaries.
type Metrics struct {
	WPM                     int
	AccuracyPercent         float64
	CompVocabScore          float64
	Comprehension           TypeScore
	Vocabulary              TypeScore
	ExpectedWPM             int
	FluencyNormalized       float64
	CappedFluencyNormalized float64
	CapEngaged              bool
}

// ComputeMetrics derives metrics from an attempt that already passed
// validation. expectedWPM must be positive.
func ComputeMetrics(in AttemptInput, expectedWPM int, fluencyCap float64) Metrics {
	wpm := int(math.Round(float64(in.WordCount) / in.Minutes()))
	accuracy := float64(in.WordCount-in.ErrorCount) / float64(in.WordCount) * 100

	comp, vocab := tallyAnswers(in)

	normalized := float64(wpm) / float64(expectedWPM) * 100
	capped := math.Min(normalized, fluencyCap)

	return Metrics{
		WPM:                     wpm,
		AccuracyPercent:         accuracy,
		CompVocabScore:          CombineCompVocab(comp, vocab),
		Comprehension:           comp,
		Vocabulary:              vocab,
		ExpectedWPM:             expectedWPM,
		FluencyNormalized:       normalized,
		CappedFluencyNormalized: capped,
		CapEngaged:              normalized > fluencyCap,
	}
}

// CombineCompVocab averages the two type percents when both types have
// questions, uses the one present otherwise, and returns 0 when neither does.
func CombineCompVocab(comp, vocab TypeScore) float64 {
	switch {
	case comp.Total > 0 && vocab.Total > 0:
		return (comp.Percent() + vocab.Percent()) / 2
	case comp.Total > 0:
		return comp.Percent()
	case vocab.Total > 0:
		return vocab.Percent()
	default:
		return 0
	}
}

func tallyAnswers(in AttemptInput) (comp, vocab TypeScore) {
	for i, q := range in.Questions {
		var ts *TypeScore
		switch q.Type {
		case QuestionComprehension:
			ts = &comp
		case QuestionVocabulary:
			ts = &vocab
		default:
			continue
		}
		ts.Total++
		if answer, ok := in.Answers[i]; ok && normalizeLetter(answer) == normalizeLetter(q.CorrectAnswer) {
			ts.Correct++
		}
	}
	return comp, vocab
}
