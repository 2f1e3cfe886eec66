package benchmark

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// DefaultPath is the gjson path of the benchmark array in an export or
// service response.
const DefaultPath = "benchmarks"

// ParseExport extracts benchmark rows from a JSON document. path selects
// the array with gjson syntax; an empty path means the document itself is
// the array. Each element needs an integer grade and a positive integer
// expectedWPM (or expected_wpm); the array is checked against a JSON schema
// before any row is read.
func ParseExport(data []byte, path string) ([]Benchmark, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("benchmark export is not valid JSON")
	}
	if path == "" {
		path = "@this"
	}

	list := gjson.GetBytes(data, path)
	if !list.Exists() {
		return nil, errors.Errorf("no benchmarks at path %q", path)
	}
	if !list.IsArray() {
		return nil, errors.Errorf("value at path %q is not an array", path)
	}

	if err := validateRows(list.Raw); err != nil {
		return nil, err
	}

	var rows []Benchmark
	list.ForEach(func(_, item gjson.Result) bool {
		wpm := item.Get("expectedWPM")
		if !wpm.Exists() {
			wpm = item.Get("expected_wpm")
		}
		rows = append(rows, Benchmark{Grade: int(item.Get("grade").Int()), ExpectedWPM: int(wpm.Int())})
		return true
	})

	if err := Check(rows); err != nil {
		return nil, errors.Wrap(err, "invalid benchmark export")
	}
	return rows, nil
}
