package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/services"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondServiceError translates the error taxonomy into a status code and
// a machine-readable code. Anything unrecognized is an internal error.
func respondServiceError(c *gin.Context, err error, operation string) {
	var (
		configuration *apierrors.ConfigurationError
		validation    *apierrors.ValidationError
		transport     *apierrors.TransportError
	)

	switch {
	case errors.As(err, &configuration):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: configuration.Message, Code: "configuration"})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: validation.Message, Code: "validation"})
	case errors.As(err, &transport):
		log.Printf("Upstream error (%s): %v", operation, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   transport.Error(),
			Code:    "transport",
			Details: gin.H{"service": transport.Service, "status": transport.StatusCode},
		})
	case errors.Is(err, services.ErrNoBooksFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "upstream request timed out", Code: "timeout"})
	default:
		respondInternalError(c, err, operation)
	}
}
