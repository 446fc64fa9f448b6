package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrUnauthenticated
	ErrForbidden
	ErrConflict
	ErrInternal
)

// AppError is the error type every boundary maps failures into. Internal
// detail travels in Err and is logged, never serialized to clients.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

func Unauthenticated(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: message,
	}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// IsNotFound reports whether err is an AppError carrying ErrNotFound.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrNotFound
}
