package utils

import (
	"errors"
	"net/http"
)

// Repository-level conditions. Services translate them into AppErrors.
var (
	// A unique index on a generated code (property or booking) rejected the
	// insert; the caller recomputes the code and tries again.
	ErrCodeTaken = errors.New("code_taken")

	// The partial unique index allowing one live booking per tenant and
	// property rejected the insert.
	ErrLiveBookingExists = errors.New("live_booking_exists")

	// The (user, property) like pair already exists.
	ErrAlreadyLiked = errors.New("already_liked")

	// An optimistic-lock edit lost to concurrent writers on every attempt.
	ErrEditContention = errors.New("edit_contention")

	// A property-scoped write raced with a delete.
	ErrPropertyGone = errors.New("property_gone")

	ErrPropertyCodeExhausted = errors.New("property code space exhausted (ZZZZ9999)")
	ErrBookingCodeExhausted  = errors.New("booking code space exhausted (BK99999999)")
	ErrMalformedCode         = errors.New("malformed_code")
)

// AppError carries everything a controller needs to answer a failed call.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFound(msg string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Code: ErrCodeForbidden, Message: msg}
}

func NewConflict(msg string, details any) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrCodeConflict, Message: msg, Details: details}
}

func NewValidation(msg string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: msg}
}

func NewInternal(msg string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrCodeInternal, Message: msg, Err: err}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
		return
	}
	RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
}

// ErrorCode returns the AppError code of err, or "" when err is not one.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
