package service

import "errors"

var (
	// ErrSourceIDRequired is returned when the charge has no payment source.
	ErrSourceIDRequired = errors.New("Payment source ID is required")

	// ErrInvalidAmount is returned when the charge amount is not positive.
	ErrInvalidAmount = errors.New("Valid payment amount is required")

	// ErrMissingBookingInfo is returned when a booking lacks a first name or
	// an email address.
	ErrMissingBookingInfo = errors.New("Missing required booking information")

	// ErrEmailNotConfigured is returned when email delivery is requested but
	// no SMTP credentials were supplied.
	ErrEmailNotConfigured = errors.New("email is not configured")

	// ErrEmailQueueFull is returned when the notification queue cannot accept
	// another task.
	ErrEmailQueueFull = errors.New("email queue is full")
)

// ChargeError is a charge rejection carrying the message shown to the client.
// Internal marks faults (transport, unparseable upstream bodies) that the
// client cannot act on.
type ChargeError struct {
	UserMessage string
	Code        string // upstream error code when known
	RawDetail   string // bounded diagnostic detail, safe to log
	Internal    bool
}

func (e *ChargeError) Error() string {
	return e.UserMessage
}
