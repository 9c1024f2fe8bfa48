package apperr

import (
	"errors"   // Error unwrapping
	"fmt"      // Error formatting
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Code is a machine-checkable error category
type Code string

// Error categories surfaced on the wire
const (
	CodeValidation   Code = "VALIDATION_ERROR"  // Input failed field constraints
	CodeUnauthorized Code = "UNAUTHORIZED"      // Missing or invalid credentials
	CodeForbidden    Code = "FORBIDDEN"         // Role not in the operation's allowed set
	CodeNotFound     Code = "NOT_FOUND"         // No such record for this user
	CodeConflict     Code = "CONFLICT"          // Uniqueness constraint violation
	CodeRateLimited  Code = "TOO_MANY_REQUESTS" // Rate window exceeded
	CodeInternal     Code = "INTERNAL_ERROR"    // Store or other internal failure
)

// Error is a typed application error carrying a category and a human-readable detail
type Error struct {
	Code    Code   // Error category
	Message string // Human-readable detail
	Cause   error  // Underlying error, not serialized
}

// Error returns the string representation of the error
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an application error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an existing error
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// Constructors for the common categories

// Validation creates a VALIDATION_ERROR
func Validation(message string) *Error { return New(CodeValidation, message) }

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *Error { return New(CodeForbidden, message) }

// NotFound creates a NOT_FOUND error
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// Conflict creates a CONFLICT error
func Conflict(message string) *Error { return New(CodeConflict, message) }

// RateLimited creates a TOO_MANY_REQUESTS error
func RateLimited(message string) *Error { return New(CodeRateLimited, message) }

// IsCode reports whether err is an application error with the given code
func IsCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// HTTPStatus maps an error category to its wire status
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error as a JSON body with its mapped status. Errors that are
// not application errors are treated as internal and never leak their cause.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Wrap(err, CodeInternal, "Internal server error")
	}
	// Internal failures are logged with their cause; all others are caller mistakes
	if appErr.Code == CodeInternal {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),   // Route that failed
			"error": appErr.Error(), // Full error including cause
		}).Error("Request failed")
	}
	detail := appErr.Message
	if appErr.Code == CodeInternal {
		detail = "Internal server error" // Never expose store internals
	}
	c.JSON(HTTPStatus(appErr.Code), gin.H{"code": appErr.Code, "detail": detail})
}

// Abort writes the error like Respond and stops the middleware chain
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
