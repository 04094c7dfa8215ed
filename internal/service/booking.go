package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"limo/internal/domain"
)

// Mailer queues booking notifications for background delivery.
type Mailer interface {
	QueueBookingConfirmation(booking *domain.Booking) error
	QueueBookingAlert(booking *domain.Booking) error
}

// BookingService confirms bookings. Bookings are not persisted; the
// confirmation response is the record of truth for the client.
type BookingService struct {
	mailer Mailer
}

// NewBookingService creates a new BookingService. A nil mailer disables
// notifications entirely.
func NewBookingService(mailer Mailer) *BookingService {
	return &BookingService{mailer: mailer}
}

// CreateBookingRequest contains the parameters for confirming a booking.
type CreateBookingRequest struct {
	Form          domain.BookingForm
	PaymentID     string
	PaymentStatus string
}

// BookingConfirmation is the result of a confirmed booking. EmailsSent
// reports whether the confirmation email was handed to the notification
// worker, not whether delivery succeeded.
type BookingConfirmation struct {
	Booking    *domain.Booking
	EmailsSent bool
}

// CreateBooking validates the form, assigns a booking id, and queues
// notification emails best-effort. Email problems never fail the booking.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingConfirmation, error) {
	if strings.TrimSpace(req.Form.FirstName) == "" || strings.TrimSpace(req.Form.Email) == "" {
		return nil, ErrMissingBookingInfo
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "cash"
	}

	booking := &domain.Booking{
		ID:            newBookingID(),
		Form:          req.Form,
		PaymentID:     req.PaymentID,
		PaymentStatus: paymentStatus,
		CreatedAt:     time.Now(),
	}

	emailsSent := false
	if s.mailer != nil {
		if err := s.mailer.QueueBookingConfirmation(booking); err != nil {
			log.Printf("booking %s: confirmation email not queued: %v", booking.ID, err)
		} else {
			emailsSent = true
		}
		if err := s.mailer.QueueBookingAlert(booking); err != nil {
			log.Printf("booking %s: alert email not queued: %v", booking.ID, err)
		}
	}

	log.Printf("booking created: id=%s customer=%s %s service=%s payment=%s",
		booking.ID, booking.Form.FirstName, booking.Form.LastName,
		booking.Form.ServiceType, booking.PaymentStatus)

	return &BookingConfirmation{Booking: booking, EmailsSent: emailsSent}, nil
}

// newBookingID generates a display-only booking identifier. The format is
// never parsed back.
func newBookingID() string {
	return fmt.Sprintf("booking_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
