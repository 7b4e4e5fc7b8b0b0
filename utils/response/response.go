package response

import (
	"errors"
	"net/http"

	"cracker/services"

	"github.com/gin-gonic/gin"
)

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// Success sends a standardized success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// FromServiceError maps an engine error onto its transport status. Expected
// outcomes keep their own statuses; anything unrecognized is a store failure
// and surfaces as a generic retryable 503.
func FromServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientCP):
		Error(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrStaleBlock):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoActiveBlock):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrWrongPhase):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotWinner):
		Error(c, http.StatusForbidden, err.Error())
	default:
		Error(c, http.StatusServiceUnavailable, "Temporarily unavailable, please retry")
	}
}
