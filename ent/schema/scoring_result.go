package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ScoringResult is the persisted outcome of one scored attempt. Rows are
// insert-only: a re-submission creates a new row.
type ScoringResult struct {
	ent.Schema
}

func (ScoringResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable().
			Comment("UUID assigned at submission"),
		field.String("assessment_id").
			Optional().
			Comment("Caller-supplied assessment reference, if any"),
		field.Int("grade").
			Immutable(),
		field.String("version").
			Immutable().
			Comment("Scorer version: v1 or v2"),
		field.Int("wpm").
			Immutable(),
		field.Float("accuracy_percent").
			Immutable(),
		field.Float("fluency_score").
			Immutable(),
		field.Float("comp_vocab_score").
			Immutable(),
		field.Int("composite_score").
			Immutable(),
		field.String("label").
			Immutable().
			Comment("Reading level label"),
		field.Bool("cap_engaged").
			Immutable(),
		field.Bool("accuracy_hard_floor_applied").
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (ScoringResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("assessment_id"),
		index.Fields("created_at"),
	}
}
