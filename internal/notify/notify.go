package notify

import (
	"context"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/kafka"
)

const publishRetries = 3

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error
}

// KafkaNotifier announces stored bookings on the notifications topic.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

func NewKafkaNotifier(producer Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) BookingCreated(ctx context.Context, booking domain.Booking) error {
	return n.producer.PublishWithRetry(ctx, n.topic, booking.ID, kafka.NewBookingNotification(booking), publishRetries)
}
