package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/wesleysambacht/booking/internal/kafka"
)

var ErrNoRecipient = errors.New("notification has no recipient")

type Logger interface {
	Info(format string, args ...any)
}

// Sender delivers booking confirmations. Delivery is a log line until a mail provider is configured.
type Sender struct {
	log Logger
}

func NewSender(log Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, n kafka.BookingNotification) error {
	if n.CustomerEmail == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("send email to %s: %s", n.CustomerEmail, Subject(n))
	return nil
}

// Subject is the confirmation mail subject line.
func Subject(n kafka.BookingNotification) string {
	return fmt.Sprintf("Reservering ontvangen voor %s om %s (%d gasten)", n.EventDate, n.EventTime, n.GuestCount)
}
