package question

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by a Store when a lookup or delete matches no row.
var ErrRecordNotFound = errors.New("record not found")

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnprocessable
	KindNotFound
	KindMethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnprocessable:
		return "unprocessable"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Error is the typed failure returned by Service operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind carried by err, or KindInternal for anything untyped.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindInternal
}

// Validation failures.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidDifficulty = errors.New("difficulty must be a positive integer")
	ErrUnknownCategory   = errors.New("category does not exist")
	ErrNoQuestions       = errors.New("no questions")
	ErrNoCategories      = errors.New("no categories")
	ErrEmptySearchTerm   = errors.New("search term must not be empty")
)
