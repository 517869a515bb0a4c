package bookingflow

import (
	"sync"
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
)

// Delta is what changed in a single transition.
type Delta struct {
	StepFrom        domain.Step `json:"step_from"`
	StepTo          domain.Step `json:"step_to"`
	Direction       Direction   `json:"direction,omitempty"`
	DateChanged     bool        `json:"date_changed"`
	TimeChanged     bool        `json:"time_changed"`
	StaleTime       bool        `json:"stale_time"`
	GuestCountDelta int         `json:"guest_count_delta"`
}

// Event is the interaction record of one dispatched action.
type Event struct {
	SessionID string              `json:"session_id,omitempty"`
	Action    ActionKind          `json:"action"`
	Before    domain.BookingDraft `json:"before"`
	After     domain.BookingDraft `json:"after"`
	Delta     Delta               `json:"delta"`
	Ignored   bool                `json:"ignored"`
	At        time.Time           `json:"at"`
}

func newEvent(action Action, before, after domain.BookingDraft, ignored bool) Event {
	delta := Delta{
		StepFrom:        before.Step,
		StepTo:          after.Step,
		Direction:       action.Direction,
		DateChanged:     before.SelectedDate != after.SelectedDate,
		TimeChanged:     before.SelectedTime != after.SelectedTime,
		GuestCountDelta: after.GuestCount - before.GuestCount,
	}
	if delta.Direction == "" && delta.StepTo != delta.StepFrom {
		if delta.StepTo > delta.StepFrom {
			delta.Direction = DirectionForward
		} else {
			delta.Direction = DirectionBackward
		}
	}
	if action.Kind == ActionSetDate && delta.DateChanged && after.HasTime() {
		delta.StaleTime = true
	}

	return Event{
		Action:  action.Kind,
		Before:  before,
		After:   after,
		Delta:   delta,
		Ignored: ignored,
	}
}

// Bus fans interaction events out to subscribers. Publish never blocks: an event that
// does not fit into a subscriber's buffer is dropped for that subscriber.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	onDrop      func()
}

func NewBus(onDrop func()) *Bus {
	return &Bus{
		subscribers: make(map[int]chan Event),
		onDrop:      onDrop,
	}
}

// Subscribe returns a channel of events and a function that unsubscribes and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	return ch, func() { b.unsubscribe(id) }
}

// unsubscribe closes the channel only if it is still registered, so it is safe after Close
// and when called twice.
func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			if b.onDrop != nil {
				b.onDrop()
			}
		}
	}
}

// Close unsubscribes everyone.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}
