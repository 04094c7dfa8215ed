package tests

import (
	"errors"
	"strings"
	"testing"
	"time"

	"limo/internal/domain"
	"limo/internal/service"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID: "booking_1712000000000_abcd1234",
		Form: domain.BookingForm{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane@example.com",
			ServiceType: "Airport Transfer",
		},
		PaymentStatus: "COMPLETED",
	}
}

func waitForEmail(t *testing.T, sender *MockSender) SentEmail {
	t.Helper()
	select {
	case sent := <-sender.Sent:
		return sent
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for email delivery")
		return SentEmail{}
	}
}

func TestEmailService_DeliversQueuedConfirmation(t *testing.T) {
	sender := NewMockSender()
	emailService := service.NewEmailService(sender, "bookings@limo.example", 10)
	defer emailService.Close()

	if err := emailService.QueueBookingConfirmation(testBooking()); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	sent := waitForEmail(t, sender)
	if sent.To != "jane@example.com" {
		t.Errorf("unexpected recipient %q", sent.To)
	}
	if !strings.Contains(sent.Subject, "booking_1712000000000_abcd1234") {
		t.Errorf("expected booking id in subject, got %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "Jane") {
		t.Errorf("expected customer name in body, got %q", sent.HTML)
	}
}

func TestEmailService_AlertGoesToBusinessInbox(t *testing.T) {
	sender := NewMockSender()
	emailService := service.NewEmailService(sender, "bookings@limo.example", 10)
	defer emailService.Close()

	if err := emailService.QueueBookingAlert(testBooking()); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	sent := waitForEmail(t, sender)
	if sent.To != "bookings@limo.example" {
		t.Errorf("unexpected recipient %q", sent.To)
	}
}

func TestEmailService_AlertWithoutBusinessInboxFails(t *testing.T) {
	sender := NewMockSender()
	emailService := service.NewEmailService(sender, "", 10)
	defer emailService.Close()

	if err := emailService.QueueBookingAlert(testBooking()); err != service.ErrEmailNotConfigured {
		t.Errorf("expected ErrEmailNotConfigured, got %v", err)
	}
}

func TestEmailService_NilSenderRejectsEnqueue(t *testing.T) {
	emailService := service.NewEmailService(nil, "", 10)
	defer emailService.Close()

	if err := emailService.QueueBookingConfirmation(testBooking()); err != service.ErrEmailNotConfigured {
		t.Errorf("expected ErrEmailNotConfigured, got %v", err)
	}
	if err := emailService.QueueTestEmail("ops@limo.example"); err != service.ErrEmailNotConfigured {
		t.Errorf("expected ErrEmailNotConfigured, got %v", err)
	}
}

func TestEmailService_TestEmailUsesConfirmationTemplate(t *testing.T) {
	sender := NewMockSender()
	emailService := service.NewEmailService(sender, "", 10)
	defer emailService.Close()

	if err := emailService.QueueTestEmail("ops@limo.example"); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	sent := waitForEmail(t, sender)
	if sent.To != "ops@limo.example" {
		t.Errorf("unexpected recipient %q", sent.To)
	}
	if !strings.Contains(sent.Subject, "booking_test_") {
		t.Errorf("expected sample booking id in subject, got %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "Booking Confirmed") || !strings.Contains(sent.HTML, "Test") {
		t.Errorf("expected the confirmation template with sample data, got %q", sent.HTML)
	}
}

func TestEmailService_DeliveryFailureIsIsolated(t *testing.T) {
	sender := NewMockSender()
	sender.Err = errors.New("smtp: 535 authentication failed")
	emailService := service.NewEmailService(sender, "", 10)

	if err := emailService.QueueBookingConfirmation(testBooking()); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}
	waitForEmail(t, sender)

	// Close drains the queue; a delivery failure must not wedge the worker.
	emailService.Close()
}

func TestEmailService_QueueFull(t *testing.T) {
	sender := NewMockSender()
	sender.Block = make(chan struct{})
	emailService := service.NewEmailService(sender, "", 1)

	// First task is picked up by the worker and blocks in Send; the second
	// fills the queue; the third must be rejected, not block the caller.
	if err := emailService.QueueTestEmail("a@example.com"); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if err := emailService.QueueTestEmail("b@example.com"); err == service.ErrEmailQueueFull {
			break
		}
		select {
		case <-deadline:
			t.Fatal("queue never reported full")
		default:
		}
	}

	close(sender.Block)
	emailService.Close()
}
