package scoring

import (
	"context"
	"math"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// attempt builds an input whose comprehension and vocabulary answers are
// correct for the first n questions of each type and wrong for the rest.
func attempt(words int, seconds float64, errs int, compCorrect, compTotal, vocabCorrect, vocabTotal, grade int) AttemptInput {
	in := AttemptInput{
		WordCount:          words,
		ReadingTimeSeconds: seconds,
		ErrorCount:         errs,
		Answers:            map[int]string{},
		StudentGrade:       grade,
	}
	add := func(typ QuestionType, correct, total int) {
		for i := 0; i < total; i++ {
			idx := len(in.Questions)
			in.Questions = append(in.Questions, Question{Type: typ, CorrectAnswer: "A"})
			if i < correct {
				in.Answers[idx] = "A"
			} else {
				in.Answers[idx] = "B"
			}
		}
	}
	add(QuestionComprehension, compCorrect, compTotal)
	add(QuestionVocabulary, vocabCorrect, vocabTotal)
	return in
}

// fixedBenchmarks is a BenchmarkLookup over a map.
type fixedBenchmarks map[int]int

func (f fixedBenchmarks) ExpectedWPM(_ context.Context, grade int) (int, error) {
	wpm, ok := f[grade]
	if !ok {
		return 0, ErrBenchmarkNotFound
	}
	return wpm, nil
}

func grade5() fixedBenchmarks {
	return fixedBenchmarks{5: 150}
}
