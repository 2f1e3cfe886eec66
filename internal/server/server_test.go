package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readlevel/internal/benchmark"
	"github.com/abhisek/readlevel/internal/metrics"
	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
)

type testEnv struct {
	srv       *Server
	collector *metrics.Collector
}

func newTestServer(t *testing.T, version scoring.Version, persist bool) *testEnv {
	t.Helper()
	tun := scoring.DefaultTunables()
	tun.ScoreVersion = version

	collector := metrics.NewCollector()
	engine := scoring.NewEngine(benchmark.DefaultTable(), scoring.StaticTunables(tun),
		scoring.WithObserver(collector))

	opts := []Option{Name("test"), ID("test-id"), Collector(collector)}
	if persist {
		st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		opts = append(opts, Results(st.ResultRepo()))
	}

	srv, err := New(engine, opts...)
	require.NoError(t, err)
	return &testEnv{srv: srv, collector: collector}
}

// attemptBody renders a request with compCorrect of compTotal
// comprehension answers right.
func attemptBody(words int, seconds float64, errs, compCorrect, compTotal, grade int) map[string]any {
	answers := map[string]string{}
	questions := []map[string]string{}
	for i := 0; i < compTotal; i++ {
		questions = append(questions, map[string]string{"type": "comprehension", "correctAnswer": "C"})
		if i < compCorrect {
			answers[strconv.Itoa(i)] = "C"
		} else {
			answers[strconv.Itoa(i)] = "D"
		}
	}
	return map[string]any{
		"assessmentId":       "asmt-1",
		"wordCount":          words,
		"readingTimeSeconds": seconds,
		"errorCount":         errs,
		"answers":            answers,
		"questions":          questions,
		"studentGrade":       grade,
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload string
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		payload = string(raw)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var responseKeys = []string{"accuracy", "compVocabScore", "compositeScore", "fluencyScore", "readingLevelLabel", "wpm"}

func TestScoreAttempt_Created(t *testing.T) {
	env := newTestServer(t, scoring.V2, true)
	h := env.srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/attempts", attemptBody(300, 120, 6, 17, 20, 5))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode(t, rec)
	assert.Equal(t, responseKeys, keys(got))
	assert.Equal(t, float64(150), got["wpm"])
	assert.Equal(t, float64(98), got["accuracy"])
	assert.Equal(t, float64(98), got["fluencyScore"])
	assert.Equal(t, float64(85), got["compVocabScore"])
	assert.Equal(t, float64(92), got["compositeScore"])
	assert.Equal(t, string(scoring.LabelAt), got["readingLevelLabel"])

	loc := rec.Header().Get(echo.HeaderLocation)
	require.True(t, strings.HasPrefix(loc, "/v1/attempts/"), loc)

	fetched := do(t, h, http.MethodGet, loc, nil)
	require.Equal(t, http.StatusOK, fetched.Code)
	assert.Equal(t, got, decode(t, fetched))

	assert.Equal(t, 1.0, env.collector.LabelCount(scoring.V2, scoring.LabelAt))
}

func TestScoreAttempt_SameShapeAcrossVersions(t *testing.T) {
	for _, v := range []scoring.Version{scoring.V1, scoring.V2} {
		t.Run(string(v), func(t *testing.T) {
			env := newTestServer(t, v, false)
			rec := do(t, env.srv.Handler(), http.MethodPost, "/v1/attempts", attemptBody(500, 120, 50, 9, 10, 5))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, responseKeys, keys(decode(t, rec)))
			assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestScoreAttempt_Errors(t *testing.T) {
	tests := []struct {
		name     string
		version  scoring.Version
		body     any
		wantCode int
		wantErr  string
	}{
		{
			name:     "too few words",
			version:  scoring.V1,
			body:     attemptBody(10, 120, 0, 1, 1, 5),
			wantCode: http.StatusBadRequest,
			wantErr:  string(scoring.KindInvalidAttempt),
		},
		{
			name:     "errors exceed words",
			version:  scoring.V1,
			body:     attemptBody(100, 120, 101, 1, 1, 5),
			wantCode: http.StatusBadRequest,
			wantErr:  string(scoring.KindInvalidAttempt),
		},
		{
			name:     "grade out of range",
			version:  scoring.V1,
			body:     attemptBody(300, 120, 6, 1, 1, 13),
			wantCode: http.StatusBadRequest,
			wantErr:  string(scoring.KindInvalidGradeLevel),
		},
		{
			name:     "unknown scorer version",
			version:  scoring.Version("v9"),
			body:     attemptBody(300, 120, 6, 1, 1, 5),
			wantCode: http.StatusInternalServerError,
			wantErr:  string(scoring.KindInvalidConfiguration),
		},
		{
			name:     "malformed json",
			version:  scoring.V1,
			body:     `{"wordCount": `,
			wantCode: http.StatusBadRequest,
			wantErr:  CodeBadRequest,
		},
		{
			name:     "non-numeric answer key",
			version:  scoring.V1,
			body:     `{"wordCount":300,"readingTimeSeconds":120,"answers":{"first":"A"},"studentGrade":5}`,
			wantCode: http.StatusBadRequest,
			wantErr:  CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestServer(t, tt.version, false)
			rec := do(t, env.srv.Handler(), http.MethodPost, "/v1/attempts", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			got := decode(t, rec)
			assert.Equal(t, tt.wantErr, got["error"])
			assert.NotEmpty(t, got["message"])
		})
	}
}

func TestGetResult_NotFound(t *testing.T) {
	env := newTestServer(t, scoring.V1, true)
	rec := do(t, env.srv.Handler(), http.MethodGet, "/v1/attempts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decode(t, rec)["error"])
}

func TestGetResult_PersistenceDisabled(t *testing.T) {
	env := newTestServer(t, scoring.V1, false)
	rec := do(t, env.srv.Handler(), http.MethodGet, "/v1/attempts/any", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTunables(t *testing.T) {
	env := newTestServer(t, scoring.V2, false)
	rec := do(t, env.srv.Handler(), http.MethodGet, "/v1/tunables", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode(t, rec)
	assert.Equal(t, "v2", got["scoreVersion"])
	assert.Equal(t, scoring.DefaultFluencyCap, got["fluencyCap"])
	assert.Nil(t, got["accuracyHardFloor"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t, scoring.V1, false)
	h := env.srv.Handler()

	rec := do(t, h, http.MethodPost, "/v1/attempts", attemptBody(300, 120, 6, 17, 20, 5))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/plain"))
	assert.Contains(t, rec.Body.String(), metrics.LabelsTotal)
	assert.Contains(t, rec.Body.String(), `version="v1"`)
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t, scoring.V1, false)
	rec := do(t, env.srv.Handler(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode(t, rec)
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "test", got["serviceName"])
	assert.Equal(t, "test-id", got["serviceID"])
}

func TestUnknownRoute(t *testing.T) {
	env := newTestServer(t, scoring.V1, false)
	rec := do(t, env.srv.Handler(), http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decode(t, rec)["error"])
}

func TestNewRejectsBadOptions(t *testing.T) {
	engine := scoring.NewEngine(benchmark.DefaultTable(), scoring.StaticTunables(scoring.DefaultTunables()))

	_, err := New(engine, Port(0))
	assert.Error(t, err)

	_, err = New(nil)
	assert.Error(t, err)
}

func TestNameAndIDGenerated(t *testing.T) {
	engine := scoring.NewEngine(benchmark.DefaultTable(), scoring.StaticTunables(scoring.DefaultTunables()))
	srv, err := New(engine, Name(""), ID(""))
	require.NoError(t, err)
	assert.NotEmpty(t, srv.serviceName)
	assert.NotEmpty(t, srv.serviceID)
}

type failingResults struct{}

func (failingResults) Save(context.Context, *store.ResultRecord) error {
	return errors.New("disk full")
}

func (failingResults) Get(context.Context, string) (*store.ResultRecord, error) { return nil, nil }

func (failingResults) List(context.Context, store.QueryOpts) ([]store.ResultRecord, error) {
	return nil, nil
}

func TestScoreAttempt_PersistFailureIsNotObserved(t *testing.T) {
	tun := scoring.DefaultTunables()
	tun.ScoreVersion = scoring.V2
	collector := metrics.NewCollector()
	engine := scoring.NewEngine(benchmark.DefaultTable(), scoring.StaticTunables(tun),
		scoring.WithObserver(collector))
	srv, err := New(engine, Name("test"), ID("test-id"), Collector(collector), Results(failingResults{}))
	require.NoError(t, err)

	rec := do(t, srv.Handler(), http.MethodPost, "/v1/attempts", attemptBody(300, 120, 6, 17, 20, 5))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeInternal, body.Error)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 0.0, collector.LabelCount(scoring.V2, scoring.LabelAt))
}
