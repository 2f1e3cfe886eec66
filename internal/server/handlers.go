package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/abhisek/readlevel/internal/metrics"
	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
)

// Error codes beyond the scoring kinds.
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type questionRequest struct {
	Type          string `json:"type"`
	CorrectAnswer string `json:"correctAnswer"`
}

// attemptRequest is the POST /v1/attempts body. Answers are keyed by the
// question index as a string.
type attemptRequest struct {
	AssessmentID       string            `json:"assessmentId"`
	WordCount          int               `json:"wordCount"`
	ReadingTimeSeconds float64           `json:"readingTimeSeconds"`
	ErrorCount         int               `json:"errorCount"`
	Answers            map[string]string `json:"answers"`
	Questions          []questionRequest `json:"questions"`
	StudentGrade       int               `json:"studentGrade"`
}

func (r *attemptRequest) input() (scoring.AttemptInput, error) {
	in := scoring.AttemptInput{
		WordCount:          r.WordCount,
		ReadingTimeSeconds: r.ReadingTimeSeconds,
		ErrorCount:         r.ErrorCount,
		Answers:            make(map[int]string, len(r.Answers)),
		Questions:          make([]scoring.Question, 0, len(r.Questions)),
		StudentGrade:       r.StudentGrade,
	}
	for k, v := range r.Answers {
		i, err := strconv.Atoi(k)
		if err != nil {
			return in, fmt.Errorf("answers: key %q is not a question index", k)
		}
		in.Answers[i] = v
	}
	for _, q := range r.Questions {
		in.Questions = append(in.Questions, scoring.Question{
			Type:          scoring.QuestionType(q.Type),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return in, nil
}

// resultResponse is the public result shape. It is identical for every
// scorer version.
type resultResponse struct {
	WPM               int     `json:"wpm"`
	Accuracy          float64 `json:"accuracy"`
	FluencyScore      float64 `json:"fluencyScore"`
	CompVocabScore    float64 `json:"compVocabScore"`
	CompositeScore    int     `json:"compositeScore"`
	ReadingLevelLabel string  `json:"readingLevelLabel"`
}

func responseFromResult(r *scoring.ScoringResult) resultResponse {
	return resultResponse{
		WPM:               r.WPM,
		Accuracy:          r.AccuracyPercent,
		FluencyScore:      r.FluencyScore,
		CompVocabScore:    r.CompVocabScore,
		CompositeScore:    r.CompositeScore,
		ReadingLevelLabel: string(r.ReadingLevelLabel),
	}
}

func responseFromRecord(r *store.ResultRecord) resultResponse {
	return resultResponse{
		WPM:               r.WPM,
		Accuracy:          r.AccuracyPercent,
		FluencyScore:      r.FluencyScore,
		CompVocabScore:    r.CompVocabScore,
		CompositeScore:    r.CompositeScore,
		ReadingLevelLabel: r.Label,
	}
}

func (s *Server) handleScore(c echo.Context) error {
	req := &attemptRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{CodeBadRequest, "malformed request body"})
	}
	in, err := req.input()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{CodeBadRequest, err.Error()})
	}

	ctx := c.Request().Context()
	res, publish, err := s.engine.ScoreDeferred(ctx, in)
	if err != nil {
		return s.scoringError(c, err)
	}

	if s.results != nil {
		rec := &store.ResultRecord{
			ID:                       uuid.NewString(),
			AssessmentID:             req.AssessmentID,
			Grade:                    in.StudentGrade,
			Version:                  string(res.Version),
			WPM:                      res.WPM,
			AccuracyPercent:          res.AccuracyPercent,
			FluencyScore:             res.FluencyScore,
			CompVocabScore:           res.CompVocabScore,
			CompositeScore:           res.CompositeScore,
			Label:                    string(res.ReadingLevelLabel),
			CapEngaged:               res.CapEngaged,
			AccuracyHardFloorApplied: res.AccuracyHardFloorApplied,
			CreatedAt:                time.Now().UTC(),
		}
		if err := s.results.Save(ctx, rec); err != nil {
			s.log.Error("server: persist result", "error", err)
			return c.JSON(http.StatusInternalServerError, errorBody{CodeInternal, "could not persist result"})
		}
		c.Response().Header().Set(echo.HeaderLocation, "/v1/attempts/"+rec.ID)
	}

	publish(ctx)
	return c.JSON(http.StatusCreated, responseFromResult(res))
}

func (s *Server) handleGetResult(c echo.Context) error {
	if s.results == nil {
		return c.JSON(http.StatusNotFound, errorBody{CodeNotFound, "result persistence is disabled"})
	}
	id := c.Param("id")
	rec, err := s.results.Get(c.Request().Context(), id)
	if err != nil {
		s.log.Error("server: load result", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{CodeInternal, "could not load result"})
	}
	if rec == nil {
		return c.JSON(http.StatusNotFound, errorBody{CodeNotFound, fmt.Sprintf("no result with id %q", id)})
	}
	return c.JSON(http.StatusOK, responseFromRecord(rec))
}

func (s *Server) handleTunables(c echo.Context) error {
	t, err := s.engine.Tunables()
	if err != nil {
		return s.scoringError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleMetrics(c echo.Context) error {
	if s.collector == nil {
		return c.NoContent(http.StatusNotFound)
	}
	var buf bytes.Buffer
	if _, err := s.collector.WriteTo(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, metrics.ContentType, buf.Bytes())
}

// scoringError maps engine errors to HTTP responses. Configuration errors
// are the operator's fault, so they are 500s.
func (s *Server) scoringError(c echo.Context, err error) error {
	var se *scoring.Error
	if !errors.As(err, &se) {
		s.log.Error("server: scoring failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{CodeInternal, "scoring failed"})
	}

	msg := se.Msg
	if se.Err != nil {
		msg = fmt.Sprintf("%s: %v", se.Msg, se.Err)
	}
	switch se.Kind {
	case scoring.KindInvalidConfiguration:
		s.log.Error("server: invalid scoring configuration", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{string(se.Kind), msg})
	default:
		return c.JSON(http.StatusBadRequest, errorBody{string(se.Kind), msg})
	}
}

// errorHandler renders echo's own errors (unknown route, bad method) in
// the service's error shape.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	body := errorBody{CodeInternal, "internal error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		body = errorBody{http.StatusText(code), fmt.Sprint(he.Message)}
		switch code {
		case http.StatusNotFound:
			body.Error = CodeNotFound
		case http.StatusBadRequest:
			body.Error = CodeBadRequest
		}
	} else {
		s.log.Error("server: unhandled error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
