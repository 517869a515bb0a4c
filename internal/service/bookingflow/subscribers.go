package bookingflow

import (
	"context"

	"github.com/wesleysambacht/booking/internal/metrics"
)

type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// Producer is the analytics sink, e.g. a Kafka topic.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Handler func(ctx context.Context, ev Event)

// Consume feeds every event to the handlers until ctx is done or events is closed.
func Consume(ctx context.Context, events <-chan Event, handlers ...Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			for _, h := range handlers {
				h(ctx, ev)
			}
		}
	}
}

func LogHandler(log Logger) Handler {
	return func(_ context.Context, ev Event) {
		if ev.Ignored {
			log.Warn("session %s: ignored %s (step %d)", ev.SessionID, ev.Action, ev.Before.Step)
			return
		}
		log.Debug("session %s: %s step %d->%d date=%q time=%q guests=%d stale_time=%t",
			ev.SessionID, ev.Action, ev.Delta.StepFrom, ev.Delta.StepTo,
			ev.After.SelectedDate, ev.After.SelectedTime, ev.After.GuestCount, ev.Delta.StaleTime)
	}
}

func MetricsHandler(m *metrics.Metrics) Handler {
	return func(_ context.Context, ev Event) {
		m.ObserveTransition(string(ev.Action), ev.Ignored)
	}
}

// PublishHandler forwards events keyed by session id. Failures are logged and dropped.
func PublishHandler(producer Producer, topic string, log Logger) Handler {
	return func(ctx context.Context, ev Event) {
		if producer == nil || topic == "" {
			return
		}
		if err := producer.Publish(ctx, topic, ev.SessionID, ev); err != nil {
			log.Warn("publish interaction event for session %s: %v", ev.SessionID, err)
		}
	}
}
