package benchmark

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const rowsSchemaURL = "schema://benchmark-rows.json"

// rowsSchema is the shape of a benchmark array. Grade range and uniqueness
// are checked by Check so the error text stays the same for every source.
var rowsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grade":        map[string]any{"type": "integer"},
			"expectedWPM":  map[string]any{"type": "integer", "minimum": 1},
			"expected_wpm": map[string]any{"type": "integer", "minimum": 1},
		},
		"required": []any{"grade"},
		"anyOf": []any{
			map[string]any{"required": []any{"expectedWPM"}},
			map[string]any{"required": []any{"expected_wpm"}},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func rowsValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants decoded JSON values, not Go literals.
		def, err := json.Marshal(rowsSchema)
		if err != nil {
			compileErr = errors.Wrap(err, "marshal benchmark schema")
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
		if err != nil {
			compileErr = errors.Wrap(err, "parse benchmark schema")
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(rowsSchemaURL, doc); err != nil {
			compileErr = errors.Wrap(err, "add benchmark schema")
			return
		}
		compiled, compileErr = c.Compile(rowsSchemaURL)
	})
	return compiled, compileErr
}

// validateRows checks raw, a JSON array, against the benchmark row schema.
func validateRows(raw string) error {
	sch, err := rowsValidator()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "decode benchmark rows")
	}
	if err := sch.Validate(doc); err != nil {
		return errors.Wrap(err, "benchmark rows do not match schema")
	}
	return nil
}
