package email

import (
	"context"
	"log"

	"github.com/alizada/flightbook/internal/kafka"
)

// Sender logs the notification it would deliver. Actual delivery is out of
// scope; the worker wires this behind the notifications topic.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify account %d: booking %d on flight %d is %s (%s)",
		event.AccountID, event.BookingID, event.FlightID, event.Status, event.Type)
	return nil
}
