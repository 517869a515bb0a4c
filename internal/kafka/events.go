package kafka

import (
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
)

const EventBookingCreated = "booking.created"

// BookingNotification travels on the notifications topic after a booking is stored.
type BookingNotification struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	EventDate     string    `json:"event_date"`
	EventTime     string    `json:"event_time"`
	GuestCount    int       `json:"guest_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewBookingNotification(b domain.Booking) BookingNotification {
	return BookingNotification{
		Type:          EventBookingCreated,
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		EventDate:     b.EventDate,
		EventTime:     b.EventTime,
		GuestCount:    b.GuestCount,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
}
