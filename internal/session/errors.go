package session

import (
	"errors"
	"fmt"
)

// Error is a rejected user-facing operation. The store and the record are
// untouched when an Error is returned.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Misspelling is the word the operation was called with.
	Misspelling string
}

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeInvalidMisspelling indicates an empty or unrecordable misspelling.
	ErrCodeInvalidMisspelling ErrorCode = "INVALID_MISSPELLING"

	// ErrCodeInvalidCorrection indicates an empty or unrecordable correction.
	ErrCodeInvalidCorrection ErrorCode = "INVALID_CORRECTION"

	// ErrCodeNotActive indicates an applied correction was reported for a
	// misspelling with no auto-apply rule.
	ErrCodeNotActive ErrorCode = "NOT_ACTIVE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Misspelling != "" {
		return fmt.Sprintf("%s: %s (misspelling=%q)", e.Code, e.Message, e.Misspelling)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err rejected its input.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidMisspelling || se.Code == ErrCodeInvalidCorrection
	}
	return false
}

// IsNotActive reports whether err is an applied correction without a rule.
func IsNotActive(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeNotActive
	}
	return false
}

func invalidMisspelling(misspelling, message string) *Error {
	return &Error{Code: ErrCodeInvalidMisspelling, Message: message, Misspelling: misspelling}
}

func invalidCorrection(misspelling, message string) *Error {
	return &Error{Code: ErrCodeInvalidCorrection, Message: message, Misspelling: misspelling}
}
