// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lumenpass/lumenpass/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping is the response for one error kind.
type errorMapping struct {
	status  int
	code    string
	message string // empty means the error text is shown
}

var errorMappings = map[apperrors.Kind]errorMapping{
	apperrors.KindNotFound:     {http.StatusNotFound, "not_found", "The requested resource was not found"},
	apperrors.KindConflict:     {http.StatusConflict, "conflict", "The request conflicts with the current state of the resource"},
	apperrors.KindInvalidInput: {http.StatusUnprocessableEntity, "invalid_input", ""},
	apperrors.KindUnauthorized: {http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	apperrors.KindForbidden:    {http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	apperrors.KindUnavailable:  {http.StatusServiceUnavailable, "unavailable", "A required device or dependency is unavailable"},
}

// internalError hides the details of errors that wrap no domain error.
var internalError = errorMapping{http.StatusInternalServerError, "internal_error", "An internal error occurred"}

// HandleErrorGin writes the JSON error response for err, chosen by its Kind.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	mapping, ok := errorMappings[apperrors.KindOf(err)]
	if !ok {
		mapping = internalError
	}

	response := ErrorResponse{Error: mapping.code, Message: mapping.message}
	if response.Message == "" {
		response.Message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if mapping.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", mapping.code),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, response)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}

	c.JSON(http.StatusUnprocessableEntity, errorResponse)
}
