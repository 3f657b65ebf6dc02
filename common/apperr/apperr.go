package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure
type Kind int

const (
	// Validation covers malformed or unacceptable input: missing delegate,
	// self-delegation, closed window, member not approved.
	Validation Kind = iota
	// Conflict covers states that refuse the transition: an outstanding
	// delegation already exists, or a request was already decided.
	Conflict
	// NotFound covers referenced records missing at transition time.
	NotFound
	// TxConflict covers contended atomic updates; safe to retry because
	// preconditions are re-checked on every attempt.
	TxConflict
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case TxConflict:
		return "tx_conflict"
	default:
		return "unknown"
	}
}

// Error is a classified domain error
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

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf builds a validation error
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// TxConflictf builds a transaction-conflict error wrapping the cause
func TxConflictf(err error, format string, args ...any) *Error {
	return &Error{Kind: TxConflict, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind of err, or ok=false for unclassified errors
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
