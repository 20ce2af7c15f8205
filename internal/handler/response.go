package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fare/internal/domain"
	"fare/internal/service"
)

// ErrorResponse represents an error response. Field names the offending
// input for validation errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, newErrorResponse(err))
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

func newErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Field = string(verr.Field)
	}
	return resp
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var (
		verr      *domain.ValidationError
		remoteErr *service.RemoteEstimationError
	)

	switch {
	// Validation errors - Bad Request
	case errors.As(err, &verr),
		errors.Is(err, service.ErrUnknownMode):
		return http.StatusBadRequest

	// A newer request of the same session won
	case errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict

	case errors.Is(err, service.ErrRemoteNotConfigured):
		return http.StatusServiceUnavailable

	// Prediction service failures
	case errors.As(err, &remoteErr):
		if remoteErr.Kind == service.RemoteErrorTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
