package apperr

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	Validation        ErrorType = "VALIDATION"
	NotFound          ErrorType = "NOT_FOUND"
	InsufficientFunds ErrorType = "INSUFFICIENT_FUNDS"
	Conflict          ErrorType = "CONFLICT"
	Unauthorized      ErrorType = "UNAUTHORIZED"
	Unavailable       ErrorType = "UNAVAILABLE"
	Internal          ErrorType = "INTERNAL_ERROR"
)

// Error is a user-facing failure. Message is what gets shown in a toast.
type Error struct {
	Type    ErrorType
	Message string
	Op      string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s -> %v", e.Type, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Type, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidation(op, message string) *Error {
	return &Error{Type: Validation, Op: op, Message: message}
}

func NewNotFound(op, resource string) *Error {
	return &Error{Type: NotFound, Op: op, Message: fmt.Sprintf("%s not found", resource)}
}

func NewInsufficientBalance(op string) *Error {
	return &Error{Type: InsufficientFunds, Op: op, Message: "Insufficient balance"}
}

func NewConflict(op, message string) *Error {
	return &Error{Type: Conflict, Op: op, Message: message}
}

// NewAuth carries the provider error code next to the mapped message.
func NewAuth(op, code, message string, err error) *Error {
	return &Error{Type: Unauthorized, Op: op, Code: code, Message: message, Err: err}
}

func NewUnavailable(op string, err error) *Error {
	return &Error{Type: Unavailable, Op: op, Message: "Service is starting, please retry", Err: err}
}

func NewInternal(op string, err error) *Error {
	return &Error{Type: Internal, Op: op, Message: "internal server error", Err: err}
}

// NewFailure is an internal error with a specific toast message.
func NewFailure(op, message string, err error) *Error {
	return &Error{Type: Internal, Op: op, Message: message, Err: err}
}

func WrapInternal(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewInternal(op, err)
}

// TypeOf returns the ErrorType of err, or Internal for foreign errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return Internal
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred"
}

func IsNotFound(err error) bool {
	return TypeOf(err) == NotFound
}

func IsValidation(err error) bool {
	return TypeOf(err) == Validation
}
