package domain

import "time"

// BookingForm is the reservation form submitted by the client application.
// Only FirstName and Email are required; the rest feeds the charge note and
// the confirmation email.
type BookingForm struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	ServiceType     string
	VehicleType     string
	PickupDate      string
	PickupTime      string
	PickupAddress   string
	Destination     string
	PassengerCount  int
	PaymentMethod   string
	TotalAmount     float64
	SpecialRequests string
	BillingAddress  string
}

// Booking is a confirmed reservation. The ID format is display-only and is
// never parsed back.
type Booking struct {
	ID            string
	Form          BookingForm
	PaymentID     string
	PaymentStatus string
	CreatedAt     time.Time
}
