package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"limo/internal/domain"
	"limo/internal/square"
)

// ──────────────────────────────────────────────
// MOCK CHARGER
// ──────────────────────────────────────────────

// MockCharger is a mock implementation of service.Charger.
type MockCharger struct {
	mu          sync.Mutex
	lastRequest square.CreatePaymentRequest

	// Counters for verification
	CallCount int32

	// Scripted behavior
	Payment *square.Payment
	Err     error
}

// NewMockCharger creates a new mock charger that succeeds by default.
func NewMockCharger() *MockCharger {
	return &MockCharger{}
}

func (m *MockCharger) CreatePayment(ctx context.Context, req square.CreatePaymentRequest) (*square.Payment, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.mu.Lock()
	m.lastRequest = req
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Payment != nil {
		return m.Payment, nil
	}
	// Default: echo the request back as a completed payment.
	return &square.Payment{
		ID:          "payment-1",
		Status:      "COMPLETED",
		AmountMoney: req.AmountMoney,
	}, nil
}

// LastRequest returns the most recent request sent upstream.
func (m *MockCharger) LastRequest() square.CreatePaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// MockMailer is a mock implementation of service.Mailer.
type MockMailer struct {
	mu          sync.Mutex
	lastBooking *domain.Booking

	// Counters for verification
	ConfirmationCount int32
	AlertCount        int32

	// Error injection
	ConfirmationErr error
	AlertErr        error
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) QueueBookingConfirmation(booking *domain.Booking) error {
	atomic.AddInt32(&m.ConfirmationCount, 1)
	m.mu.Lock()
	m.lastBooking = booking
	m.mu.Unlock()
	return m.ConfirmationErr
}

func (m *MockMailer) QueueBookingAlert(booking *domain.Booking) error {
	atomic.AddInt32(&m.AlertCount, 1)
	return m.AlertErr
}

// LastBooking returns the booking from the most recent confirmation call.
func (m *MockMailer) LastBooking() *domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBooking
}

// ──────────────────────────────────────────────
// MOCK EMAIL SENDER
// ──────────────────────────────────────────────

// SentEmail records one delivery through MockSender.
type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

// MockSender is a mock implementation of service.Sender. Deliveries are
// reported on Sent so tests can synchronize with the worker goroutine.
type MockSender struct {
	Sent chan SentEmail

	// Error injection
	Err error

	// Optional gate: when non-nil, Send blocks until the channel is closed.
	Block chan struct{}
}

// NewMockSender creates a new mock sender with a buffered delivery channel.
func NewMockSender() *MockSender {
	return &MockSender{Sent: make(chan SentEmail, 16)}
}

func (m *MockSender) Send(to, subject, html string) error {
	if m.Block != nil {
		<-m.Block
	}
	m.Sent <- SentEmail{To: to, Subject: subject, HTML: html}
	return m.Err
}
