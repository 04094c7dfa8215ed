package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"limo/internal/domain"
	"limo/internal/service"
)

func validBooking() service.CreateBookingRequest {
	return service.CreateBookingRequest{
		Form: domain.BookingForm{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane@example.com",
			ServiceType: "Airport Transfer",
		},
		PaymentID:     "p1",
		PaymentStatus: "COMPLETED",
	}
}

func TestCreateBooking_RequiresFirstName(t *testing.T) {
	testCases := []struct {
		name      string
		firstName string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bookingService := service.NewBookingService(NewMockMailer())

			req := validBooking()
			req.Form.FirstName = tc.firstName

			_, err := bookingService.CreateBooking(context.Background(), req)
			if err != service.ErrMissingBookingInfo {
				t.Errorf("expected ErrMissingBookingInfo, got %v", err)
			}
		})
	}
}

func TestCreateBooking_RequiresEmail(t *testing.T) {
	bookingService := service.NewBookingService(NewMockMailer())

	req := validBooking()
	req.Form.Email = ""

	_, err := bookingService.CreateBooking(context.Background(), req)
	if err != service.ErrMissingBookingInfo {
		t.Errorf("expected ErrMissingBookingInfo, got %v", err)
	}
}

func TestCreateBooking_GeneratesBookingID(t *testing.T) {
	bookingService := service.NewBookingService(NewMockMailer())

	first, err := bookingService.CreateBooking(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(first.Booking.ID, "booking_") {
		t.Errorf("unexpected booking id %q", first.Booking.ID)
	}

	second, err := bookingService.CreateBooking(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Booking.ID == first.Booking.ID {
		t.Errorf("expected unique booking ids, got %q twice", first.Booking.ID)
	}
}

func TestCreateBooking_DefaultsPaymentStatusToCash(t *testing.T) {
	bookingService := service.NewBookingService(NewMockMailer())

	req := validBooking()
	req.PaymentID = ""
	req.PaymentStatus = ""

	confirmation, err := bookingService.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmation.Booking.PaymentStatus != "cash" {
		t.Errorf("expected payment status cash, got %q", confirmation.Booking.PaymentStatus)
	}
}

func TestCreateBooking_QueuesEmails(t *testing.T) {
	mailer := NewMockMailer()
	bookingService := service.NewBookingService(mailer)

	confirmation, err := bookingService.CreateBooking(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !confirmation.EmailsSent {
		t.Error("expected EmailsSent=true")
	}
	if mailer.ConfirmationCount != 1 {
		t.Errorf("expected 1 confirmation email, got %d", mailer.ConfirmationCount)
	}
	if mailer.AlertCount != 1 {
		t.Errorf("expected 1 alert email, got %d", mailer.AlertCount)
	}
	if mailer.LastBooking().Form.Email != "jane@example.com" {
		t.Errorf("unexpected recipient %q", mailer.LastBooking().Form.Email)
	}
}

func TestCreateBooking_EmailFailureDoesNotFailBooking(t *testing.T) {
	mailer := NewMockMailer()
	mailer.ConfirmationErr = errors.New("smtp: connection refused")
	mailer.AlertErr = errors.New("smtp: connection refused")
	bookingService := service.NewBookingService(mailer)

	confirmation, err := bookingService.CreateBooking(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("expected booking to succeed despite email failure, got %v", err)
	}

	if confirmation.EmailsSent {
		t.Error("expected EmailsSent=false when the mailer fails")
	}
	if confirmation.Booking.ID == "" {
		t.Error("expected a booking id")
	}
}

func TestCreateBooking_NilMailerReportsEmailsNotSent(t *testing.T) {
	bookingService := service.NewBookingService(nil)

	confirmation, err := bookingService.CreateBooking(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmation.EmailsSent {
		t.Error("expected EmailsSent=false with no mailer")
	}
}
