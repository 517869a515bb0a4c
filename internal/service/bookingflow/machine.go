package bookingflow

import (
	"sync"
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
)

// Publisher receives the events of a Machine. *Bus implements it.
type Publisher interface {
	Publish(ev Event)
}

// Machine holds the draft of one session.
type Machine struct {
	sessionID string
	publisher Publisher
	now       func() time.Time

	// publishMu keeps events in the order their transitions were applied
	publishMu sync.Mutex
	mu        sync.Mutex
	state     domain.BookingDraft
}

func NewMachine(sessionID string, publisher Publisher, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		sessionID: sessionID,
		publisher: publisher,
		now:       now,
		state:     InitialState(),
	}
}

// Dispatch reduces action into the draft and publishes the resulting event. State reads
// are not blocked while the event is published.
func (m *Machine) Dispatch(action Action) (domain.BookingDraft, Event) {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()

	m.mu.Lock()
	next, ev := Reduce(m.state, action)
	m.state = next
	m.mu.Unlock()

	ev.SessionID = m.sessionID
	ev.At = m.now()
	if m.publisher != nil {
		m.publisher.Publish(ev)
	}
	return next, ev
}

func (m *Machine) State() domain.BookingDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) SessionID() string {
	return m.sessionID
}
