package benchmark

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/abhisek/readlevel/internal/util"
)

// HTTPProvider fetches benchmarks from an external service. Every call
// fetches the full list; wrap it in Cached to avoid a round trip per
// lookup.
type HTTPProvider struct {
	url     string
	path    string
	headers map[string]string
}

// NewHTTPProvider returns a provider for url. path is the gjson path of
// the benchmark array in the response; empty means DefaultPath.
func NewHTTPProvider(url, path string) *HTTPProvider {
	if path == "" {
		path = DefaultPath
	}
	return &HTTPProvider{
		url:  url,
		path: path,
		headers: map[string]string{
			"Accept": "application/json",
		},
	}
}

func (p *HTTPProvider) fetch(ctx context.Context) ([]Benchmark, error) {
	data, err := util.Fetch(ctx, http.MethodGet, p.url, p.headers, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch benchmarks")
	}
	rows, err := ParseExport(data, p.path)
	if err != nil {
		return nil, errors.Wrap(err, "benchmark service response")
	}
	return rows, nil
}

func (p *HTTPProvider) ExpectedWPM(ctx context.Context, grade int) (int, error) {
	rows, err := p.fetch(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range rows {
		if b.Grade == grade {
			return b.ExpectedWPM, nil
		}
	}
	return 0, ErrNotFound
}

func (p *HTTPProvider) Grades(ctx context.Context) ([]int, error) {
	rows, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return sortedGrades(rows), nil
}
