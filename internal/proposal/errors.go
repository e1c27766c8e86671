package proposal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a lifecycle failure so callers can pick between retry,
// reload, and conflict-resolution UI.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindForbidden         ErrorKind = "forbidden"
	KindAlreadyConverted  ErrorKind = "already_converted"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal"
)

// Error is the structured failure returned by the lifecycle service and the
// converter. Kind is always set; the remaining fields are populated when they
// carry information the caller needs (the offending field for validation
// failures, both states for transition failures, the existing project for
// duplicate conversions).
type Error struct {
	Kind      ErrorKind
	Message   string
	Field     string
	From      Status
	To        Status
	ProjectID string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the error kind, treating anything unclassified as internal.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// AsError returns the structured error when err carries one.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func notFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func validation(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(from, to Status, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, From: from, To: to, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func alreadyConverted(projectID string) *Error {
	return &Error{
		Kind:      KindAlreadyConverted,
		ProjectID: projectID,
		Message:   fmt.Sprintf("proposal already converted to project %s", projectID),
	}
}

func internalErr(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error()}
}

// NotFoundError builds a not-found failure for the given entity. Exposed for
// the store layer, which translates sql.ErrNoRows into it.
func NotFoundError(entity, id string) *Error {
	return notFound("%s %s not found", entity, id)
}

// ConflictError reports a lost conditional write: the row changed between the
// read and the guarded update. Callers should treat it like an invalid
// transition and re-read before retrying.
func ConflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
