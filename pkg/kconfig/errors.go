package kconfig

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of a parse or resolve error.
// Automated tooling uses the class to tell "file not found" apart from
// "malformed content".
type ErrorClass string

const (
	// ErrorClassStructural indicates malformed document structure.
	// Examples: unbalanced scope closers, include cycles, a variable type
	// line outside any config block.
	ErrorClassStructural ErrorClass = "structural"

	// ErrorClassValidation indicates a record that failed construction
	// checks. Examples: malformed parameter names or values.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassSyntax indicates an unrecognized or unimplemented line
	// form. Always non-fatal: parsing continues past it.
	ErrorClassSyntax ErrorClass = "syntax"

	// ErrorClassResource indicates a missing external input.
	// Examples: a sourced Kconfig file or template file that does not exist.
	ErrorClassResource ErrorClass = "resource"
)

// Error is a classified error with optional file/line context.
type Error struct {
	// Class is the error classification.
	Class ErrorClass

	// Message is the human-readable error message.
	Message string

	// File is the Kconfig file being parsed, if applicable.
	File string

	// Line is the 1-indexed line number, if applicable.
	Line int

	// Err is the underlying error that caused this error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d: %s", e.Class, e.File, e.Line, msg)
	}
	if e.File != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Class, e.File, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Class, msg)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// WithLocation adds file and line context to an error.
func (e *Error) WithLocation(file string, line int) *Error {
	e.File = file
	e.Line = line
	return e
}

// NewStructuralError creates a new structural error.
func NewStructuralError(message string, err error) *Error {
	return &Error{Class: ErrorClassStructural, Message: message, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, err error) *Error {
	return &Error{Class: ErrorClassValidation, Message: message, Err: err}
}

// NewSyntaxError creates a new syntax error.
func NewSyntaxError(message string, err error) *Error {
	return &Error{Class: ErrorClassSyntax, Message: message, Err: err}
}

// NewResourceError creates a new resource error.
func NewResourceError(message string, err error) *Error {
	return &Error{Class: ErrorClassResource, Message: message, Err: err}
}

// IsStructural returns true if the error is classified as structural.
func IsStructural(err error) bool {
	return hasClass(err, ErrorClassStructural)
}

// IsValidation returns true if the error is classified as a validation error.
func IsValidation(err error) bool {
	return hasClass(err, ErrorClassValidation)
}

// IsSyntax returns true if the error is classified as a syntax error.
func IsSyntax(err error) bool {
	return hasClass(err, ErrorClassSyntax)
}

// IsResource returns true if the error is classified as a resource error.
func IsResource(err error) bool {
	return hasClass(err, ErrorClassResource)
}

func hasClass(err error, class ErrorClass) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Class == class
	}
	return false
}
