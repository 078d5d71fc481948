package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrNoSlotsAvailable means a course has no remaining candidate slots to try.
	ErrNoSlotsAvailable = New("NO_SLOTS_AVAILABLE", http.StatusUnprocessableEntity, "no candidate slots available")
	// ErrDemandExceedsSupply means weekly class counts cannot fit in the available slot grid.
	ErrDemandExceedsSupply = New("DEMAND_EXCEEDS_SUPPLY", http.StatusUnprocessableEntity, "demand exceeds available supply")
	// ErrInfeasible means a phase could not find any satisfying assignment within its time budget.
	ErrInfeasible = New("INFEASIBLE", http.StatusUnprocessableEntity, "phase is infeasible")
	// ErrMalformedInput means the input bundle failed structural or referential validation.
	ErrMalformedInput = New("MALFORMED_INPUT", http.StatusBadRequest, "malformed input bundle")
	// ErrQueryNotFound means a conflict-analysis query referenced a term with no solved schedule.
	ErrQueryNotFound = New("QUERY_NOT_FOUND", http.StatusNotFound, "query target not found")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
