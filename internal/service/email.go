package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"time"

	"limo/internal/config"
	"limo/internal/domain"
)

// Sender delivers a single rendered email.
type Sender interface {
	Send(to, subject, html string) error
}

// SMTPSender delivers email over SMTP with plain auth.
type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
}

// NewSMTPSender creates a sender from email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
	}
}

// Send delivers one message. Blocking; called only from the worker goroutine.
func (s *SMTPSender) Send(to, subject, html string) error {
	message := []byte("From: " + s.user + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n" +
		html)

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.user, []string{to}, message); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h2>Booking Confirmed</h2>
<p>Hi {{.Form.FirstName}},</p>
<p>Your {{.Form.ServiceType}} reservation is confirmed.</p>
<ul>
  <li>Booking ID: {{.ID}}</li>
  <li>Vehicle: {{.Form.VehicleType}}</li>
  <li>Pickup: {{.Form.PickupDate}} {{.Form.PickupTime}} at {{.Form.PickupAddress}}</li>
  {{if .Form.Destination}}<li>Destination: {{.Form.Destination}}</li>{{end}}
  <li>Passengers: {{.Form.PassengerCount}}</li>
  <li>Payment: {{.PaymentStatus}}</li>
</ul>
{{if .Form.SpecialRequests}}<p>Special requests: {{.Form.SpecialRequests}}</p>{{end}}
<p>Thank you for riding with us.</p>
`))

var alertTmpl = template.Must(template.New("alert").Parse(`
<h2>New Booking</h2>
<ul>
  <li>Booking ID: {{.ID}}</li>
  <li>Customer: {{.Form.FirstName}} {{.Form.LastName}} ({{.Form.Email}})</li>
  <li>Service: {{.Form.ServiceType}} / {{.Form.VehicleType}}</li>
  <li>Pickup: {{.Form.PickupDate}} {{.Form.PickupTime}} at {{.Form.PickupAddress}}</li>
  {{if .Form.Destination}}<li>Destination: {{.Form.Destination}}</li>{{end}}
  <li>Passengers: {{.Form.PassengerCount}}</li>
  <li>Total: ${{printf "%.2f" .Form.TotalAmount}}</li>
  <li>Payment: {{.PaymentStatus}}{{if .PaymentID}} ({{.PaymentID}}){{end}}</li>
</ul>
`))

type emailTask struct {
	to      string
	subject string
	tmpl    *template.Template
	data    any
}

// EmailService queues notification emails and delivers them from a single
// background worker, keeping SMTP latency and failures out of the booking
// request path. Delivery failures are logged, never propagated.
type EmailService struct {
	sender     Sender
	businessTo string
	queue      chan emailTask
	done       chan struct{}
}

// NewEmailService creates the service and starts its worker. A nil sender
// disables delivery; enqueue attempts then report ErrEmailNotConfigured.
func NewEmailService(sender Sender, businessTo string, queueSize int) *EmailService {
	if queueSize <= 0 {
		queueSize = 100
	}
	s := &EmailService{
		sender:     sender,
		businessTo: businessTo,
		queue:      make(chan emailTask, queueSize),
		done:       make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *EmailService) worker() {
	defer close(s.done)
	for task := range s.queue {
		body, err := render(task.tmpl, task.data)
		if err != nil {
			log.Printf("email render failed for %s: %v", task.to, err)
			continue
		}
		if err := s.sender.Send(task.to, task.subject, body); err != nil {
			log.Printf("email delivery failed for %s: %v", task.to, err)
		}
	}
}

// Close stops accepting tasks and waits for the worker to drain the queue.
func (s *EmailService) Close() {
	close(s.queue)
	<-s.done
}

func (s *EmailService) enqueue(task emailTask) error {
	if s.sender == nil {
		return ErrEmailNotConfigured
	}
	select {
	case s.queue <- task:
		return nil
	default:
		return ErrEmailQueueFull
	}
}

// QueueBookingConfirmation queues the customer-facing confirmation email.
func (s *EmailService) QueueBookingConfirmation(booking *domain.Booking) error {
	return s.enqueue(emailTask{
		to:      booking.Form.Email,
		subject: "Your limo booking is confirmed - " + booking.ID,
		tmpl:    confirmationTmpl,
		data:    booking,
	})
}

// QueueBookingAlert queues the internal new-booking notification.
func (s *EmailService) QueueBookingAlert(booking *domain.Booking) error {
	if s.businessTo == "" {
		return ErrEmailNotConfigured
	}
	return s.enqueue(emailTask{
		to:      s.businessTo,
		subject: "New booking " + booking.ID,
		tmpl:    alertTmpl,
		data:    booking,
	})
}

// QueueTestEmail queues a sample booking confirmation to the given address so
// the diagnostic exercises the same template and delivery path as a real
// booking.
func (s *EmailService) QueueTestEmail(to string) error {
	sample := &domain.Booking{
		ID: fmt.Sprintf("booking_test_%d", time.Now().UnixMilli()),
		Form: domain.BookingForm{
			FirstName:      "Test",
			LastName:       "Customer",
			Email:          to,
			ServiceType:    "Airport Transfer",
			VehicleType:    "Luxury Sedan",
			PickupDate:     time.Now().Format("2006-01-02"),
			PickupTime:     "12:00 PM",
			PickupAddress:  "123 Main St",
			PassengerCount: 2,
		},
		PaymentStatus: "TEST",
	}
	return s.enqueue(emailTask{
		to:      to,
		subject: "Test booking confirmation - " + sample.ID,
		tmpl:    confirmationTmpl,
		data:    sample,
	})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
