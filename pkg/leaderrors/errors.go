// Package leaderrors provides the tagged error taxonomy for lead qualification operations.
// Callers branch on the error kind rather than matching message substrings.
package leaderrors

import (
	"errors"
	"fmt"
)

// Kind represents the category of a lead qualification error.
type Kind int8

const (
	// KindValidation represents malformed caller input (non-string answers, bad lead key).
	KindValidation Kind = iota
	// KindNotFound represents a referenced lead that does not exist.
	KindNotFound
	// KindConfiguration represents a missing or empty question list, or malformed config.
	KindConfiguration
	// KindPersistence represents a store read/write failure, including lost CAS writes.
	KindPersistence
	// KindExternalService represents a summarizer failure (network, quota, malformed response).
	KindExternalService
	// KindClassification is reserved for unexpected input shapes in the classifier.
	// Classification rules are pure and deterministic, so this should not occur in practice.
	KindClassification
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration"
	case KindPersistence:
		return "persistence"
	case KindExternalService:
		return "external_service"
	case KindClassification:
		return "classification"
	default:
		return "invalid"
	}
}

// Error represents a classified lead qualification error.
type Error struct {
	Err     error  // Wrapped underlying error
	Message string // Human-readable error message
	Kind    Kind   // Classified error kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lead error (%s): %s", e.Kind.String(), e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("lead error (%s): %v", e.Kind.String(), e.Err)
	}
	return fmt.Sprintf("lead error (%s)", e.Kind.String())
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if an error is of a specific kind.
func Is(err error, kind Kind) bool {
	var leadErr *Error
	if errors.As(err, &leadErr) {
		return leadErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of an error, or KindClassification if not classified.
// Unclassified errors map to the defensive kind so callers never see a silent pass.
func KindOf(err error) (Kind, bool) {
	var leadErr *Error
	if errors.As(err, &leadErr) {
		return leadErr.Kind, true
	}
	return KindClassification, false
}

// New creates a new classified error.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Newf creates a new classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithCause creates a new classified error wrapping another error.
func WithCause(kind Kind, cause error, message string) *Error {
	return &Error{
		Kind:    kind,
		Err:     cause,
		Message: message,
	}
}
