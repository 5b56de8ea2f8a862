// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sheetchart/backend/internal/models"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes returned to clients
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeDecodeError          = "DECODE_ERROR"
	CodeColumnNotFound       = "COLUMN_NOT_FOUND"
	CodeNoNumericColumn      = "NO_NUMERIC_COLUMN"
	CodeEmptyColumn          = "EMPTY_COLUMN"
	CodeRenderError          = "RENDER_ERROR"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	CodeInternal             = "INTERNAL_ERROR"
)

// showDetails controls whether unexpected errors expose their cause
var showDetails = true

// SetShowErrorDetails toggles the details field on unexpected errors.
func SetShowErrorDetails(show bool) {
	showDetails = show
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: message,
	}
	if cause != nil && showDetails {
		err.Details = cause.Error()
	}
	return err
}

// newDomainError creates a 400 error whose message names the cause
func newDomainError(code string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: cause.Error(),
	}
}

// FromError classifies an operation error. Domain failures are the caller's fault and map to
// 400; anything else is a 500.
func FromError(err error) *APIError {
	var (
		apiErr      *APIError
		decodeErr   *models.DecodeError
		notFound    *models.ColumnNotFoundError
		noNumeric   *models.NoNumericColumnError
		emptyColumn *models.EmptyColumnError
		renderErr   *models.RenderError
		unsupported *models.UnsupportedOperationError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &unsupported):
		return newDomainError(CodeUnsupportedOperation, unsupported)
	case errors.As(err, &decodeErr):
		return newDomainError(CodeDecodeError, decodeErr)
	case errors.As(err, &notFound):
		return newDomainError(CodeColumnNotFound, notFound)
	case errors.As(err, &noNumeric):
		return newDomainError(CodeNoNumericColumn, noNumeric)
	case errors.As(err, &emptyColumn):
		return newDomainError(CodeEmptyColumn, emptyColumn)
	case errors.As(err, &renderErr):
		return newDomainError(CodeRenderError, renderErr)
	default:
		return NewInternalError("An unexpected error occurred", err)
	}
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	} else {
		apiErr = FromError(err)
	}

	// HEAD requests get the status only
	if c.Request().Method == http.MethodHead {
		c.NoContent(apiErr.Status)
		return
	}
	c.JSON(apiErr.Status, apiErr)
}

