package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the failure categories the API
// translates to HTTP statuses.
type Kind string

const (
	KindValidation Kind = "validation" // missing/malformed input
	KindGeocode    Kind = "geocode"    // address could not be resolved
	KindConflict   Kind = "conflict"   // duplicate unique key
	KindNotFound   Kind = "not_found"  // no matching record/user
	KindAuth       Kind = "auth"       // bad credentials, expired/invalid token
	KindForbidden  Kind = "forbidden"  // role mismatch
	KindStore      Kind = "store"      // underlying persistence failure
)

// Error carries a failure category alongside a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr values by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Geocode(format string, args ...interface{}) *Error {
	return &Error{Kind: KindGeocode, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Auth(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "storage failure", Err: err}
}

// KindOf extracts the failure category; unclassified errors count as store
// failures so they surface as 500s.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// HTTPStatus maps a failure category to its response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindGeocode:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for an error. Store failures keep
// their generic message so internal detail is not exposed to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindStore {
			return "internal server error"
		}
		return e.Message
	}
	return "internal server error"
}
