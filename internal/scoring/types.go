package scoring

import "strings"

// QuestionType identifies which sub-score a question feeds.
type QuestionType string

const (
	QuestionComprehension QuestionType = "comprehension"
	QuestionVocabulary    QuestionType = "vocabulary"
)

// Question is one multiple-choice item attached to a passage.
type Question struct {
	Type          QuestionType `json:"type"`
	CorrectAnswer string       `json:"correctAnswer"`
}

// AttemptInput is a single submitted reading attempt. It is built once per
// request and never modified by the engine.
type AttemptInput struct {
	WordCount          int            `json:"wordCount"`
	ReadingTimeSeconds float64        `json:"readingTimeSeconds"`
	ErrorCount         int            `json:"errorCount"`
	Answers            map[int]string `json:"answers"`
	Questions          []Question     `json:"questions"`
	StudentGrade       int            `json:"studentGrade"`
}

// Minutes returns the reading time in minutes.
func (in AttemptInput) Minutes() float64 {
	return in.ReadingTimeSeconds / 60
}

// Benchmark is the expected reading rate for a grade.
type Benchmark struct {
	Grade       int `json:"grade"`
	ExpectedWPM int `json:"expectedWPM"`
}

// Version selects a scorer implementation.
type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"
)

// DefaultVersion is the scorer used when nothing is configured.
const DefaultVersion = V1

// ParseVersion normalises a flag value. Unknown values are returned as-is
// so the selector can reject them.
func ParseVersion(s string) Version {
	return Version(strings.ToLower(strings.TrimSpace(s)))
}

// Label is the human-readable reading level.
type Label string

const (
	LabelAbove         Label = "Above Grade Level"
	LabelAt            Label = "At Grade Level"
	LabelSlightlyBelow Label = "Slightly Below Grade Level"
	LabelBelow         Label = "Below Grade Level"
)

// AllLabels returns all labels from highest to lowest.
func AllLabels() []Label {
	return []Label{LabelAbove, LabelAt, LabelSlightlyBelow, LabelBelow}
}

// Rank orders labels: 3 for Above down to 0 for Below, -1 if unknown.
func (l Label) Rank() int {
	switch l {
	case LabelAbove:
		return 3
	case LabelAt:
		return 2
	case LabelSlightlyBelow:
		return 1
	case LabelBelow:
		return 0
	default:
		return -1
	}
}

// Downgrade returns the label one band lower. Slightly Below and Below are
// returned unchanged.
func (l Label) Downgrade() Label {
	switch l {
	case LabelAbove:
		return LabelAt
	case LabelAt:
		return LabelSlightlyBelow
	default:
		return l
	}
}

// FloorsMet reports whether each component cleared the floor of the band
// its composite fell into.
type FloorsMet struct {
	Fluency       bool `json:"fluency"`
	Comprehension bool `json:"comprehension"`
}

// ScoringResult is the outcome of scoring one attempt. Results are never
// patched; a re-submission produces a new value.
type ScoringResult struct {
	Version                  Version    `json:"version"`
	WPM                      int        `json:"wpm"`
	AccuracyPercent          float64    `json:"accuracyPercent"`
	FluencyScore             float64    `json:"fluencyScore"`
	CompVocabScore           float64    `json:"compVocabScore"`
	CompositeScore           int        `json:"compositeScore"`
	ReadingLevelLabel        Label      `json:"readingLevelLabel"`
	FloorsMet                *FloorsMet `json:"floorsMet,omitempty"`
	CapEngaged               bool       `json:"capEngaged"`
	AccuracyHardFloorApplied bool       `json:"accuracyHardFloorApplied"`
}
