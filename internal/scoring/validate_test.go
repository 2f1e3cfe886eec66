package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestValidateAttempt_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		seconds float64
		want    Kind
	}{
		{"exact minimums are valid", 50, 30, ""},
		{"just under half a minute", 50, 0.4999 * 60, KindInvalidAttempt},
		{"49 words", 49, 30, KindInvalidAttempt},
		{"zero time", 100, 0, KindInvalidAttempt},
		{"long read", 400, 180, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := attempt(tt.words, tt.seconds, 0, 0, 0, 0, 0, 5)
			err := ValidateAttempt(in)
			if got := KindOf(err); got != tt.want {
				t.Errorf("ValidateAttempt kind = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestValidateAttempt_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AttemptInput)
	}{
		{"negative errors", func(in *AttemptInput) { in.ErrorCount = -1 }},
		{"errors exceed words", func(in *AttemptInput) { in.ErrorCount = in.WordCount + 1 }},
		{"bad option letter", func(in *AttemptInput) { in.Answers[0] = "E" }},
		{"NaN reading time", func(in *AttemptInput) { in.ReadingTimeSeconds = math.NaN() }},
		{"infinite reading time", func(in *AttemptInput) { in.ReadingTimeSeconds = math.Inf(1) }},
		{"negative infinite reading time", func(in *AttemptInput) { in.ReadingTimeSeconds = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := attempt(200, 90, 2, 1, 2, 0, 0, 5)
			tt.mutate(&in)
			if err := ValidateAttempt(in); !errors.Is(err, ErrInvalidAttempt) {
				t.Errorf("ValidateAttempt = %v, want INVALID_ATTEMPT", err)
			}
		})
	}
}

func TestValidateAttempt_LowercaseLetterAccepted(t *testing.T) {
	in := attempt(200, 90, 0, 1, 1, 0, 0, 5)
	in.Answers[0] = " a "
	if err := ValidateAttempt(in); err != nil {
		t.Errorf("ValidateAttempt = %v, want nil", err)
	}
}

func TestValidateGrade(t *testing.T) {
	grades := NewGradeSet(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)

	tests := []struct {
		grade int
		want  Kind
	}{
		{0, KindInvalidGradeLevel},
		{1, ""},
		{11, ""},
		{12, KindInvalidGradeLevel}, // in range but no benchmark row
		{13, KindInvalidGradeLevel},
	}

	for _, tt := range tests {
		if got := KindOf(ValidateGrade(tt.grade, grades)); got != tt.want {
			t.Errorf("ValidateGrade(%d) kind = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestValidate_AttemptLengthCheckedFirst(t *testing.T) {
	in := attempt(10, 5, 0, 0, 0, 0, 0, 42)
	err := Validate(in, NewGradeSet(5))
	if KindOf(err) != KindInvalidAttempt {
		t.Errorf("Validate kind = %q, want INVALID_ATTEMPT", KindOf(err))
	}

	in = attempt(100, 60, 0, 0, 0, 0, 0, 42)
	err = Validate(in, NewGradeSet(5))
	if KindOf(err) != KindInvalidGradeLevel {
		t.Errorf("Validate kind = %q, want INVALID_GRADE_LEVEL", KindOf(err))
	}
}
