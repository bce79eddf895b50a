package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/wellvitas/booking-platform/internal/booking"
)

type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

type eventKind string

const eventBookingReceived eventKind = "booking_received.v1"

type queuePayload struct {
	ID      string           `json:"id"`
	Kind    eventKind        `json:"kind"`
	Booking *booking.Booking `json:"booking,omitempty"`
}

func encodePayload(payload queuePayload) (queuePayload, string, error) {
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return queuePayload{}, "", fmt.Errorf("notify: failed to encode payload: %w", err)
	}
	return payload, string(body), nil
}
