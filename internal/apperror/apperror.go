package apperror

import (
	"errors"
	"fmt"
)

// Code classifies failures so transport layers can map them to status codes
// without string matching.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeConflict     Code = "CONFLICT"
	CodeUnavailable  Code = "UNAVAILABLE"
)

type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two AppErrors by code only.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Unavailable(message string, err error) *AppError {
	return Wrap(CodeUnavailable, message, err)
}

// CodeOf extracts the taxonomy code, defaulting to UNAVAILABLE for errors
// that did not originate in this module's services.
func CodeOf(err error) (Code, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return CodeUnavailable, false
}
