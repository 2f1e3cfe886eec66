package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Benchmark holds the expected reading rate for a grade. Rows are reference
// data; scoring only reads them.
type Benchmark struct {
	ent.Schema
}

func (Benchmark) Fields() []ent.Field {
	return []ent.Field{
		field.Int("grade").
			Unique().
			Range(1, 12).
			Comment("Student grade level, 1 through 12"),
		field.Int("expected_wpm").
			Positive().
			Comment("Expected words per minute for the grade"),
		field.Time("updated_at").
			Default(time.Now).
			Comment("Last time the row was imported or seeded"),
	}
}
