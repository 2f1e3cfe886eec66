package store

import (
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/readlevel/ent/schema"
)

// Table names for the ent schema types.
const (
	tableBenchmarks     = "benchmarks"
	tableScoringResults = "scoring_results"
	tableScoringEvents  = "scoring_events"
)

// tables lists every persisted schema. Column definitions come from the
// ent field descriptors so the schema package stays the single source.
var tables = []struct {
	name   string
	schema ent.Interface
}{
	{tableBenchmarks, schema.Benchmark{}},
	{tableScoringResults, schema.ScoringResult{}},
	{tableScoringEvents, schema.ScoringEvent{}},
}

// migrate creates missing tables and indexes. Existing tables are left
// untouched; column changes need a manual migration.
func migrate(db *sql.DB) error {
	for _, t := range tables {
		stmts, err := createStatements(t.name, t.schema)
		if err != nil {
			return fmt.Errorf("table %s: %w", t.name, err)
		}
		for _, stmt := range stmts {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("table %s: %w", t.name, err)
			}
		}
	}
	return nil
}

// createStatements renders CREATE TABLE and CREATE INDEX statements for a
// schema, including fields and indexes contributed by its mixins.
func createStatements(name string, s ent.Interface) ([]string, error) {
	b := builder()

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	hasID := false
	var columns []entsql.Querier
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		def := []string{columnType(d)}
		if d.Name == "id" {
			hasID = true
			def = append(def, "PRIMARY KEY")
		} else {
			if !d.Optional && !d.Nillable {
				def = append(def, "NOT NULL")
			}
			if d.Unique {
				def = append(def, "UNIQUE")
			}
		}
		columns = append(columns, b.Column(d.Name).Type(strings.Join(def, " ")))
	}
	if !hasID {
		columns = append([]entsql.Querier{
			b.Column("id").Type("INTEGER PRIMARY KEY AUTOINCREMENT"),
		}, columns...)
	}

	stmts := []string{b.String(func(sb *entsql.Builder) {
		sb.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(name).Pad().
			Wrap(func(w *entsql.Builder) { w.JoinComma(columns...) })
	})}

	for _, idx := range indexes {
		d := idx.Descriptor()
		stmts = append(stmts, b.String(func(sb *entsql.Builder) {
			sb.WriteString("CREATE ")
			if d.Unique {
				sb.WriteString("UNIQUE ")
			}
			sb.WriteString("INDEX IF NOT EXISTS ").Ident(name + "_" + strings.Join(d.Fields, "_")).
				WriteString(" ON ").Ident(name).Pad().
				Wrap(func(w *entsql.Builder) { w.IdentComma(d.Fields...) })
		}))
	}
	return stmts, nil
}

// columnType maps an ent field type to a SQLite column type. Times are
// stored as fixed-width RFC 3339 text.
func columnType(d *field.Descriptor) string {
	if d.Info == nil {
		return "TEXT"
	}
	switch d.Info.Type {
	case field.TypeBool,
		field.TypeInt, field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt64,
		field.TypeUint, field.TypeUint8, field.TypeUint16, field.TypeUint32, field.TypeUint64:
		return "INTEGER"
	case field.TypeFloat32, field.TypeFloat64:
		return "REAL"
	case field.TypeBytes:
		return "BLOB"
	default:
		return "TEXT"
	}
}
