package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ScoringEvent records the observability payload of every scoring call,
// used to watch label distributions while a scorer version rolls out.
type ScoringEvent struct {
	ent.Schema
}

func (ScoringEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ScoringEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("version").
			Comment("Scorer version: v1 or v2"),
		field.Int("grade"),
		field.Int("expected_wpm"),
		field.Float("fluency_score").
			Comment("F as produced by the active scorer"),
		field.Float("comp_vocab_score").
			Comment("C, unrounded"),
		field.Int("composite_score"),
		field.String("label"),
		field.Bool("fluency_floor_met").
			Optional().
			Nillable().
			Comment("Null for scorers without floors"),
		field.Bool("comprehension_floor_met").
			Optional().
			Nillable().
			Comment("Null for scorers without floors"),
		field.Bool("cap_engaged").
			Default(false),
		field.Bool("accuracy_hard_floor_applied").
			Default(false),
	}
}

func (ScoringEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("version", "label"),
	}
}
