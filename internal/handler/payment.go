package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/domain"
	"limo/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// BookingData mirrors the reservation form the client sends alongside a
// charge. Field names follow the client contract.
type BookingData struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	ServiceType     string  `json:"serviceType"`
	VehicleType     string  `json:"vehicleType"`
	PickupDate      string  `json:"pickupDate"`
	PickupTime      string  `json:"pickupTime"`
	PickupAddress   string  `json:"pickupAddress"`
	Destination     string  `json:"destination"`
	PassengerCount  int     `json:"passengerCount"`
	PaymentMethod   string  `json:"paymentMethod"`
	TotalAmount     float64 `json:"totalAmount"`
	SpecialRequests string  `json:"specialRequests"`
	BillingAddress  string  `json:"billingAddress"`
}

func (b BookingData) toForm() domain.BookingForm {
	return domain.BookingForm{
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		Email:           b.Email,
		Phone:           b.Phone,
		ServiceType:     b.ServiceType,
		VehicleType:     b.VehicleType,
		PickupDate:      b.PickupDate,
		PickupTime:      b.PickupTime,
		PickupAddress:   b.PickupAddress,
		Destination:     b.Destination,
		PassengerCount:  b.PassengerCount,
		PaymentMethod:   b.PaymentMethod,
		TotalAmount:     b.TotalAmount,
		SpecialRequests: b.SpecialRequests,
		BillingAddress:  b.BillingAddress,
	}
}

// ProcessPaymentRequest is the HTTP request body for submitting a charge.
type ProcessPaymentRequest struct {
	SourceID       string      `json:"sourceId"`
	Amount         int64       `json:"amount"`
	BookingData    BookingData `json:"bookingData"`
	IdempotencyKey string      `json:"idempotencyKey"`
}

// ProcessPaymentResponse is the HTTP response for a successful charge.
type ProcessPaymentResponse struct {
	Success    bool   `json:"success"`
	PaymentID  string `json:"paymentId"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
	ReceiptURL string `json:"receiptUrl,omitempty"`
	CardBrand  string `json:"cardBrand,omitempty"`
	CardLast4  string `json:"cardLast4,omitempty"`
}

// ProcessPayment handles POST /api/process-payment
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.SubmitCharge(c.Request.Context(), service.ChargeRequest{
		SourceID:       req.SourceID,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
		Booking:        req.BookingData.toForm(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProcessPaymentResponse{
		Success:    true,
		PaymentID:  payment.ID,
		Status:     payment.Status,
		Amount:     payment.Amount,
		ReceiptURL: payment.ReceiptURL,
		CardBrand:  payment.CardBrand,
		CardLast4:  payment.CardLast4,
	})
}
