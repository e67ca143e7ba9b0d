package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// ErrorMapping translates a sentinel error into an AppError code and status.
type ErrorMapping struct {
	Target error
	Code   string
	Status int
}

// Classify wraps err in an AppError using the first mapping whose target matches.
// Errors that are already AppErrors are returned unchanged; unmatched errors fall back to fallbackCode with a 500.
func Classify(err error, fallbackCode string, mappings ...ErrorMapping) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			return NewAppError(m.Code, err.Error(), m.Status, err)
		}
	}
	return NewAppError(fallbackCode, err.Error(), http.StatusInternalServerError, err)
}
