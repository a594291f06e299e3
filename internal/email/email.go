package email

import (
	"context"
	"fmt"

	"github.com/dkraev/lingobook/internal/kafka"
)

// Sender delivers provider and client notifications. The demo sender writes
// to stdout; a real deployment would plug an SMTP or push gateway in here.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Type == "booking_created" {
		for _, provider := range event.Providers {
			fmt.Printf("notify provider %s: new %s request in %s (booking %s)\n", provider, event.Service, event.City, event.BookingID)
		}
		return nil
	}

	fmt.Printf("notify client %s: booking %s is now %s\n", event.ClientID, event.BookingID, event.Status)
	return nil
}
