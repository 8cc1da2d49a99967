package apperr

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies why a unit of work failed. Callers branch on the kind
// instead of parsing error strings.
type Kind string

const (
	KindFetch    Kind = "FETCH"
	KindStatus   Kind = "HTTP_STATUS"
	KindParse    Kind = "PARSE"
	KindRead     Kind = "READ"
	KindDecode   Kind = "DECODE"
	KindWrite    Kind = "WRITE"
	KindCanceled Kind = "CANCELED"
	KindConfig   Kind = "CONFIG"
)

// Error is a failure of a single operation against a single target (a URL or
// a file path).
type Error struct {
	Kind   Kind
	Op     string
	Target string
	Err    error
	Stack  []byte
}

func (e *Error) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StackTrace returns the stack captured when the error was created.
func (e *Error) StackTrace() []byte {
	return e.Stack
}

// New wraps err with a kind, the failed operation and its target.
func New(kind Kind, op, target string, err error) *Error {
	if err == nil {
		err = errors.New(op)
	}

	var stack []byte
	if stackErr, ok := err.(*goerrors.Error); ok {
		stack = stackErr.Stack()
	} else {
		stack = goerrors.Wrap(err, 1).Stack() // first frame is New's caller
	}

	return &Error{
		Kind:   kind,
		Op:     op,
		Target: target,
		Err:    err,
		Stack:  stack,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
