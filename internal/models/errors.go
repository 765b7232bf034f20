package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes shared by every engine and the HTTP layer.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
)

// Reasons attached to forbidden and conflict errors.
const (
	ReasonNotAuthor         = "NotAuthor"
	ReasonReportLimit       = "ReportLimit"
	ReasonDuplicateRelation = "DuplicateRelation"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error.
// Reason narrows the code: the missing entity for NOT_FOUND, the rule for
// VALIDATION_ERROR, the failing store operation for STORE_UNAVAILABLE.
type AppError struct {
	Code    string
	Reason  string
	Message string
	Err     error
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

// ErrDuplicateRelation is returned by stores when a (user, post) relation
// already exists for the requested kind.
var ErrDuplicateRelation = &AppError{
	Code:    CodeConflict,
	Reason:  ReasonDuplicateRelation,
	Message: "relation already exists",
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Reason:  resource,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(reason, message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Reason:  reason,
		Message: message,
	}
}

func NewForbiddenError(reason, message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Reason:  reason,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewConflictError(reason, message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Reason:  reason,
		Message: message,
	}
}

// NewStoreError reports a store failure for the named operation.
func NewStoreError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Reason:  operation,
		Message: fmt.Sprintf("store unavailable during %s", operation),
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// AsAppError unwraps err into an *AppError when it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND error for the given entity.
// An empty entity matches any NOT_FOUND error.
func IsNotFound(err error, entity string) bool {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != CodeNotFound {
		return false
	}
	return entity == "" || appErr.Reason == entity
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(NewErrorResponse(err))
}

// NewErrorResponse converts err into its wire form.
func NewErrorResponse(err error) ErrorResponse {
	appErr, ok := AsAppError(err)
	if !ok {
		return ErrorResponse{Error: err.Error()}
	}

	response := ErrorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Reason: appErr.Reason,
	}
	if appErr.Err != nil && appErr.Code != CodeInternal {
		response.Details = appErr.Err.Error()
	}
	return response
}
