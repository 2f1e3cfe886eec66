package scoring

import (
	"math"
	"strings"
)

// Attempt-length limits below which a reading is statistically meaningless.
// They do not depend on grade or tunables.
const (
	MinReadingMinutes = 0.5
	MinWordCount      = 50
)

// Supported grade range.
const (
	MinGrade = 1
	MaxGrade = 12
)

// GradeSet is the set of grades that have a benchmark row.
type GradeSet map[int]struct{}

// NewGradeSet builds a GradeSet from a list of grades.
func NewGradeSet(grades ...int) GradeSet {
	s := make(GradeSet, len(grades))
	for _, g := range grades {
		s[g] = struct{}{}
	}
	return s
}

// Has reports whether grade is in the set.
func (s GradeSet) Has(grade int) bool {
	_, ok := s[grade]
	return ok
}

// Validate runs the attempt-length check and then the grade check,
// returning the first failure.
func Validate(in AttemptInput, grades GradeSet) error {
	if err := ValidateAttempt(in); err != nil {
		return err
	}
	return ValidateGrade(in.StudentGrade, grades)
}

// ValidateAttempt rejects attempts too short to score and inputs that
// cannot produce meaningful metrics.
func ValidateAttempt(in AttemptInput) error {
	if math.IsNaN(in.ReadingTimeSeconds) || math.IsInf(in.ReadingTimeSeconds, 0) {
		return newError(KindInvalidAttempt, "reading time must be a finite number, got %v", in.ReadingTimeSeconds)
	}
	if in.WordCount < 0 || in.ErrorCount < 0 || in.ReadingTimeSeconds < 0 {
		return newError(KindInvalidAttempt, "counts and reading time must not be negative")
	}
	if in.Minutes() < MinReadingMinutes || in.WordCount < MinWordCount {
		return newError(KindInvalidAttempt,
			"attempt too short: %.2f minutes, %d words (need at least %.1f minutes and %d words)",
			in.Minutes(), in.WordCount, MinReadingMinutes, MinWordCount)
	}
	if in.ErrorCount > in.WordCount {
		return newError(KindInvalidAttempt, "error count %d exceeds word count %d", in.ErrorCount, in.WordCount)
	}
	for idx, letter := range in.Answers {
		if !validLetter(letter) {
			return newError(KindInvalidAttempt, "answer %d: option %q is not one of A-D", idx, letter)
		}
	}
	return nil
}

// ValidateGrade rejects grades outside 1..12 or without a benchmark. A nil
// set only checks the range.
func ValidateGrade(grade int, grades GradeSet) error {
	if !GradeInRange(grade) {
		return newError(KindInvalidGradeLevel, "grade %d is outside %d..%d", grade, MinGrade, MaxGrade)
	}
	if grades != nil && !grades.Has(grade) {
		return newError(KindInvalidGradeLevel, "no benchmark for grade %d", grade)
	}
	return nil
}

// GradeInRange reports whether grade is within 1..12.
func GradeInRange(grade int) bool {
	return grade >= MinGrade && grade <= MaxGrade
}

func validLetter(s string) bool {
	switch normalizeLetter(s) {
	case "A", "B", "C", "D":
		return true
	default:
		return false
	}
}

func normalizeLetter(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
