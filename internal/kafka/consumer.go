package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wesleysambacht/booking/internal/domain"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// AvailabilityChanges streams decoded change messages until ctx is done, then closes the
// channel. Undecodable messages are skipped.
func AvailabilityChanges(ctx context.Context, c *Consumer, log Logger) <-chan domain.AvailabilityChange {
	out := make(chan domain.AvailabilityChange)
	go func() {
		defer close(out)
		err := c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
			change, ok := DecodeChange(msg.Value)
			if !ok {
				log.Warn("skipping malformed availability change at offset %d", msg.Offset)
				return nil
			}
			select {
			case out <- change:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Warn("availability change consumer stopped: %v", err)
		}
	}()
	return out
}

func DecodeChange(value []byte) (domain.AvailabilityChange, bool) {
	var change domain.AvailabilityChange
	if err := json.Unmarshal(value, &change); err != nil {
		return domain.AvailabilityChange{}, false
	}
	if change.Type == "" {
		change.Type = domain.ChangeUpdate
	}
	return change, true
}
