package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for confirming a booking.
type CreateBookingRequest struct {
	FormData      BookingData `json:"formData"`
	PaymentID     string      `json:"paymentId"`
	PaymentStatus string      `json:"paymentStatus"`
}

// CreateBookingResponse is the HTTP response for a confirmed booking.
type CreateBookingResponse struct {
	Success    bool   `json:"success"`
	BookingID  string `json:"bookingId"`
	EmailsSent bool   `json:"emailsSent"`
	Message    string `json:"message"`
}

// CreateBooking handles POST /api/bookings/create
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid request body"})
		return
	}

	confirmation, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		Form:          req.FormData.toForm(),
		PaymentID:     req.PaymentID,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateBookingResponse{
		Success:    true,
		BookingID:  confirmation.Booking.ID,
		EmailsSent: confirmation.EmailsSent,
		Message:    "Booking confirmed successfully!",
	})
}
