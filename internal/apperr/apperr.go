package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so that callers and the HTTP layer
// can react without matching on message strings.
type Kind string

const (
	// KindValidation marks malformed input. The caller must correct the
	// request; retrying the same command will fail again.
	KindValidation Kind = "validation"
	// KindUnauthorized marks a missing or invalid credential.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden marks a caller that lacks the role or ownership
	// required for the action.
	KindForbidden Kind = "forbidden"
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict marks a state-machine or capacity violation: slot taken,
	// booking already decided, duplicate course name.
	KindConflict Kind = "conflict"
	// KindTransient marks an infrastructure failure. The whole command is
	// safe to retry.
	KindTransient Kind = "transient"
)

// Error is the application error type returned by services.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// New creates an application error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an application error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, err: err}
}

// KindOf extracts the kind from err. Unclassified errors are reported as
// transient so that infrastructure failures surface as retryable.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindTransient
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
