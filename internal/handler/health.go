package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"limo/internal/config"
	"limo/internal/square"
)

// LocationLister performs the read-only upstream call used to verify payment
// credentials.
type LocationLister interface {
	ListLocations(ctx context.Context) ([]square.Location, error)
}

// TestMailer queues a diagnostic email.
type TestMailer interface {
	QueueTestEmail(to string) error
}

// HealthHandler serves health and diagnostic endpoints.
type HealthHandler struct {
	squareCfg config.SquareConfig
	emailCfg  config.EmailConfig
	locations LocationLister
	mailer    TestMailer
}

// NewHealthHandler creates a new HealthHandler. mailer may be nil when email
// is not configured.
func NewHealthHandler(squareCfg config.SquareConfig, emailCfg config.EmailConfig, locations LocationLister, mailer TestMailer) *HealthHandler {
	return &HealthHandler{
		squareCfg: squareCfg,
		emailCfg:  emailCfg,
		locations: locations,
		mailer:    mailer,
	}
}

// HealthResponse reports service status and which credentials are configured.
// Values are never echoed back.
type HealthResponse struct {
	Status    string       `json:"status"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"`
	Square    SquareHealth `json:"square"`
	Email     EmailHealth  `json:"email"`
}

// SquareHealth reports payment processor configuration state.
type SquareHealth struct {
	Configured  bool   `json:"configured"`
	Environment string `json:"environment"`
}

// EmailHealth reports email configuration state.
type EmailHealth struct {
	Configured bool `json:"configured"`
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Backend server is running",
		Timestamp: time.Now().Format(time.RFC3339),
		Square: SquareHealth{
			Configured:  h.squareCfg.Configured(),
			Environment: string(h.squareCfg.Environment),
		},
		Email: EmailHealth{
			Configured: h.emailCfg.Configured(),
		},
	})
}

// TestSquareResponse carries the upstream locations returned by the probe.
type TestSquareResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Locations []square.Location `json:"locations"`
}

// TestSquare handles GET /api/test-square
func (h *HealthHandler) TestSquare(c *gin.Context) {
	locations, err := h.locations.ListLocations(c.Request.Context())
	if err != nil {
		var apiErr *square.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "Failed to connect to Square API"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: "Failed to connect to Square API"})
		return
	}

	c.JSON(http.StatusOK, TestSquareResponse{
		Success:   true,
		Message:   "Square API connection successful",
		Locations: locations,
	})
}

// TestEmailResponse reports that a diagnostic email was queued.
type TestEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestEmail handles GET /api/test-email
func (h *HealthHandler) TestEmail(c *gin.Context) {
	to := c.Query("to")
	if to == "" {
		to = h.emailCfg.User
	}

	if h.mailer == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "email is not configured"})
		return
	}
	if err := h.mailer.QueueTestEmail(to); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TestEmailResponse{
		Success: true,
		Message: "Test email queued for " + to,
	})
}
