package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried in every failed response envelope.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeConflict        = "CONFLICT"
	CodeUnexpected      = "UNEXPECTED"
)

// Response is the envelope every API handler writes.
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code      string
	Message   string
	Retryable bool
	// Forbidden marks an authenticated caller acting on a resource they do not own.
	Forbidden bool
	Err       error
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

// Status maps the error code to an HTTP status.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthorized:
		if e.Forbidden {
			return fiber.StatusForbidden
		}
		return fiber.StatusUnauthorized
	case CodeInvalidArgument:
		return fiber.StatusBadRequest
	case CodeConflict:
		return fiber.StatusConflict
	default:
		if e.Retryable {
			return fiber.StatusServiceUnavailable
		}
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidArgument,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:      CodeUnauthorized,
		Message:   message,
		Forbidden: true,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeUnexpected,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewTimeoutError marks a store deadline as a retryable failure.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:      CodeUnexpected,
		Message:   "Storage timed out, please retry",
		Retryable: true,
		Err:       err,
	}
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// AsAppError converts any error into an AppError, wrapping unknown errors as unexpected.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// RespondWithError writes the failure envelope. A zero status derives it from the error code.
// The wrapped cause is never written to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	appErr := AsAppError(err)
	if status == 0 {
		status = appErr.Status()
	}

	return c.Status(status).JSON(Response{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// RespondWithData writes the success envelope.
func RespondWithData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Data:    data,
	})
}
