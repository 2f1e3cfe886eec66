package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies a scoring failure. The string values double as the
// machine-readable error codes returned to HTTP clients.
type Kind string

const (
	KindInvalidAttempt       Kind = "INVALID_ATTEMPT"
	KindInvalidGradeLevel    Kind = "INVALID_GRADE_LEVEL"
	KindInvalidConfiguration Kind = "INVALID_CONFIGURATION"
)

// Error is a typed scoring failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can compare against
// the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == ""
}

// Sentinels for errors.Is.
var (
	ErrInvalidAttempt       = &Error{Kind: KindInvalidAttempt}
	ErrInvalidGradeLevel    = &Error{Kind: KindInvalidGradeLevel}
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a scoring error anywhere in err's chain, or
// "" if err is not a scoring error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
