package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError rejects a write before it reaches persistence.
// Code is a stable machine-readable identifier (e.g. INVALID_NAMA).
type ValidationError struct {
	Err    error
	Code   string
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func NewCodedValidationError(code, msg string) error {
	return &ValidationError{Err: errors.New(msg), Code: code}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a missing resource with a stable code.
type NotFoundError struct {
	Msg  string
	Code string
}

func NewNotFoundError(msg, code string) error {
	return &NotFoundError{Msg: msg, Code: code}
}

func (err NotFoundError) Error() string { return err.Msg }

// ConflictError reports a duplicate-key style failure with a stable code.
type ConflictError struct {
	Msg  string
	Code string
}

func NewConflictError(msg, code string) error {
	return &ConflictError{Msg: msg, Code: code}
}

func (err ConflictError) Error() string { return err.Msg }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
