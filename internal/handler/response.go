package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/service"
)

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code, message := mapError(err)
	if code == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	c.JSON(code, ErrorResponse{Success: false, Error: message})
}

// mapError maps service errors to an HTTP status and a client-safe message.
func mapError(err error) (int, string) {
	// Validation errors - Bad Request.
	switch {
	case errors.Is(err, service.ErrSourceIDRequired),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingBookingInfo),
		errors.Is(err, service.ErrEmailNotConfigured),
		errors.Is(err, service.ErrEmailQueueFull):
		return http.StatusBadRequest, err.Error()
	}

	// Upstream charge rejections carry their own user message. Internal
	// faults (transport, unparseable bodies) must not leak raw detail.
	var chargeErr *service.ChargeError
	if errors.As(err, &chargeErr) {
		if chargeErr.Internal {
			return http.StatusInternalServerError, chargeErr.UserMessage
		}
		return http.StatusBadRequest, chargeErr.UserMessage
	}

	return http.StatusInternalServerError, "Something went wrong. Please try again or contact support."
}
