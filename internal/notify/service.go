package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wellvitas/booking-platform/internal/booking"
	"github.com/wellvitas/booking-platform/internal/site"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

// Service publishes booking events onto the queue and turns them into
// clinic emails. The API process publishes; the worker consumes.
type Service struct {
	queue      queueClient
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(queue queueClient, email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if queue == nil {
		panic("notify: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		queue:      queue,
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

// BookingReceived enqueues a booking-received event for async delivery.
func (s *Service) BookingReceived(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return fmt.Errorf("notify: booking cannot be nil")
	}
	payload, body, err := encodePayload(queuePayload{
		Kind:    eventBookingReceived,
		Booking: b,
	})
	if err != nil {
		return err
	}
	if err := s.queue.Send(ctx, body); err != nil {
		return err
	}
	s.logger.Info("booking notification queued", "event_id", payload.ID, "booking_id", b.ID)
	return nil
}

// deliver sends the clinic email for one booking event.
func (s *Service) deliver(ctx context.Context, payload queuePayload) error {
	if payload.Kind != eventBookingReceived || payload.Booking == nil {
		s.logger.Warn("dropping unrecognized notification payload", "event_id", payload.ID, "kind", payload.Kind)
		return nil
	}
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("email delivery not configured, dropping notification", "event_id", payload.ID)
		return nil
	}

	msg := composeBookingEmail(payload.Booking)
	var errs []error
	for _, recipient := range s.recipients {
		msg.To = recipient
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("failed to send booking email", "error", err, "to", recipient, "booking_id", payload.Booking.ID)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}

func composeBookingEmail(b *booking.Booking) EmailMessage {
	therapies := strings.Join(b.Therapies, ", ")
	if therapies == "" {
		therapies = "TBC"
	}
	conditions := strings.Join(b.Conditions, ", ")
	if conditions == "" {
		conditions = "none listed"
	}

	programme := "Taster only"
	if b.Package != "taster" {
		programme = fmt.Sprintf("%s sessions (£%d, %s)", b.Package, b.PriceGBP, b.Payment)
	}

	body := fmt.Sprintf(`A new taster booking has come in!

Name: %s
Email: %s
Phone: %s
Preferred contact: %s
Therapies: %s
Conditions: %s
Taster: %s %s
Programme: %s
`,
		b.Name, b.Email, b.Phone, b.PreferredContact,
		therapies, conditions, b.TasterDate, b.TasterTime, programme)
	if b.Notes != "" {
		body += fmt.Sprintf("Notes: %s\n", b.Notes)
	}
	body += fmt.Sprintf("\nBooking ID: %s\n\n— %s", b.ID, site.Wellvitas.Name)

	return EmailMessage{
		Subject: fmt.Sprintf("New taster booking - %s (%s %s)", b.Name, b.TasterDate, b.TasterTime),
		Body:    body,
	}
}
