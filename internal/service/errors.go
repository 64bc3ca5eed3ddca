package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the tool layer can explain why an
// operation failed, not just that it did.
type Kind string

const (
	// KindNotFound means a sheetId, object id or range target does not exist.
	KindNotFound Kind = "not_found"
	// KindValidation means the call was malformed; never retried, always
	// surfaced verbatim with the offending field.
	KindValidation Kind = "validation"
	// KindUnsupported means the active host lacks the capability.
	KindUnsupported Kind = "unsupported"
	// KindHost means an underlying host call failed for environment reasons.
	KindHost Kind = "host"
)

// Error is the typed, field-annotated failure every operation returns.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validationf(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Unsupportedf(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, Message: fmt.Sprintf(format, args...)}
}

// HostErr wraps a failed host call. Not retried by this layer; the caller
// may retry the whole operation.
func HostErr(op string, err error) *Error {
	return &Error{Kind: KindHost, Message: op + " failed", Err: err}
}

// KindOf extracts the failure kind, defaulting to KindHost for untyped
// errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindHost
}

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUnsupported reports whether err is an UnsupportedOperation failure.
func IsUnsupported(err error) bool { return KindOf(err) == KindUnsupported }
