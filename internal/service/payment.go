package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"limo/internal/domain"
	"limo/internal/square"
)

// All charges are denominated in US dollars; the client sends minor units.
const chargeCurrency = "USD"

// User-facing messages for upstream rejections the relay recognizes.
const (
	msgUnauthorized   = "Payment configuration error. Please contact support."
	msgCardDeclined   = "Your card was declined. Please try a different payment method."
	msgInvalidRequest = "Payment could not be processed. Please try again."
	msgGenericFailure = "Payment failed"
	msgBadResponse    = "Invalid response from payment processor"
)

// Charger submits a charge to the upstream processor.
type Charger interface {
	CreatePayment(ctx context.Context, req square.CreatePaymentRequest) (*square.Payment, error)
}

// PaymentService translates inbound charge submissions into upstream payment
// requests and normalizes the responses. It holds no mutable state.
type PaymentService struct {
	charger    Charger
	locationID string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(charger Charger, locationID string) *PaymentService {
	return &PaymentService{
		charger:    charger,
		locationID: locationID,
	}
}

// ChargeRequest contains the parameters for submitting a charge.
type ChargeRequest struct {
	SourceID       string
	Amount         int64 // minor units
	IdempotencyKey string
	Booking        domain.BookingForm
}

// SubmitCharge validates the request, sends exactly one charge attempt
// upstream, and maps the outcome. Validation failures never reach the network.
func (s *PaymentService) SubmitCharge(ctx context.Context, req ChargeRequest) (*domain.Payment, error) {
	if strings.TrimSpace(req.SourceID) == "" {
		return nil, ErrSourceIDRequired
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// A caller-supplied key passes through untouched; the upstream processor
	// owns replay safety for it.
	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = newIdempotencyKey()
	}

	referenceID := fmt.Sprintf("booking_%d", time.Now().UnixMilli())

	payment, err := s.charger.CreatePayment(ctx, square.CreatePaymentRequest{
		SourceID: req.SourceID,
		AmountMoney: square.Money{
			Amount:   req.Amount,
			Currency: chargeCurrency,
		},
		IdempotencyKey: idempotencyKey,
		Note:           chargeNote(req.Booking),
		ReferenceID:    referenceID,
		LocationID:     s.locationID,
	})
	if err != nil {
		return nil, mapChargeError(err)
	}

	result := &domain.Payment{
		ID:             payment.ID,
		Status:         payment.Status,
		Amount:         payment.AmountMoney.Amount,
		Currency:       payment.AmountMoney.Currency,
		ReceiptURL:     payment.ReceiptURL,
		IdempotencyKey: idempotencyKey,
		ReferenceID:    referenceID,
	}
	if payment.CardDetails != nil {
		result.CardBrand = payment.CardDetails.Card.CardBrand
		result.CardLast4 = payment.CardDetails.Card.Last4
	}

	log.Printf("payment successful: id=%s status=%s amount=%d", result.ID, result.Status, result.Amount)
	return result, nil
}

// chargeNote builds the human-readable note attached to the upstream payment.
func chargeNote(form domain.BookingForm) string {
	return fmt.Sprintf("Limo booking - %s for %s %s", form.ServiceType, form.FirstName, form.LastName)
}

// newIdempotencyKey generates a per-request key: millisecond timestamp plus a
// random suffix.
func newIdempotencyKey() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// mapChargeError converts an upstream client error into a ChargeError with a
// stable user-facing message.
func mapChargeError(err error) error {
	var apiErr *square.APIError
	if errors.As(err, &apiErr) {
		entry, ok := apiErr.First()
		if !ok {
			return &ChargeError{UserMessage: msgGenericFailure}
		}

		ce := &ChargeError{Code: entry.Code, RawDetail: entry.Detail}
		switch entry.Code {
		case "UNAUTHORIZED":
			ce.UserMessage = msgUnauthorized
		case "CARD_DECLINED":
			ce.UserMessage = msgCardDeclined
		case "INVALID_REQUEST":
			ce.UserMessage = msgInvalidRequest
		default:
			switch {
			case entry.Detail != "":
				ce.UserMessage = entry.Detail
			case entry.Code != "":
				ce.UserMessage = entry.Code
			default:
				ce.UserMessage = msgGenericFailure
			}
		}
		return ce
	}

	var decodeErr *square.DecodeError
	if errors.As(err, &decodeErr) {
		return &ChargeError{
			UserMessage: msgBadResponse,
			RawDetail:   decodeErr.Excerpt,
			Internal:    true,
		}
	}

	// Network-level failure: nothing from upstream to show the client.
	return &ChargeError{
		UserMessage: msgBadResponse,
		RawDetail:   err.Error(),
		Internal:    true,
	}
}
