package bookingflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/logger"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestMachine_DispatchPublishesStampedEvents(t *testing.T) {
	bus := NewBus(nil)
	events, unsubscribe := bus.Subscribe(8)
	defer unsubscribe()

	at := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	m := NewMachine("session-1", bus, func() time.Time { return at })

	state, _ := m.Dispatch(SetDate("2025-06-01"))
	assert.Equal(t, domain.StepTime, state.Step)
	assert.Equal(t, state, m.State())

	ev := <-events
	assert.Equal(t, "session-1", ev.SessionID)
	assert.Equal(t, at, ev.At)
	assert.Equal(t, ActionSetDate, ev.Action)
	assert.Equal(t, "session-1", m.SessionID())
}

func TestMachine_ConcurrentDispatch(t *testing.T) {
	m := NewMachine("session-2", nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Dispatch(SetGuestCount(10 + n))
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, m.State().GuestCount, 10)
	assert.Equal(t, domain.StepDate, m.State().Step)
}

func TestBus_DropsWhenSubscriberFull(t *testing.T) {
	drops := 0
	bus := NewBus(func() { drops++ })
	events, unsubscribe := bus.Subscribe(1)

	bus.Publish(Event{Action: ActionSetDate})
	bus.Publish(Event{Action: ActionSetTime})

	assert.Equal(t, 1, drops)
	assert.Equal(t, ActionSetDate, (<-events).Action)

	unsubscribe()
	unsubscribe()
	_, open := <-events
	assert.False(t, open)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(nil)
	a, _ := bus.Subscribe(1)
	b, _ := bus.Subscribe(1)

	bus.Close()

	_, openA := <-a
	_, openB := <-b
	assert.False(t, openA)
	assert.False(t, openB)
	assert.NotPanics(t, func() { bus.Publish(Event{}) })
}

func TestBus_UnsubscribeAfterClose(t *testing.T) {
	bus := NewBus(nil)
	events, unsubscribe := bus.Subscribe(1)

	bus.Close()

	assert.NotPanics(t, unsubscribe)
	_, open := <-events
	assert.False(t, open)
}

func TestMachine_ConcurrentDispatchPublishesInStateOrder(t *testing.T) {
	const dispatches = 100
	bus := NewBus(nil)
	events, unsubscribe := bus.Subscribe(dispatches)
	defer unsubscribe()

	m := NewMachine("session-4", bus, nil)

	var wg sync.WaitGroup
	for i := 0; i < dispatches; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Dispatch(SetGuestCount(10 + n))
		}(i)
	}
	wg.Wait()

	prev := InitialState()
	for i := 0; i < dispatches; i++ {
		ev := <-events
		require.Equal(t, prev, ev.Before, "event %d", i)
		prev = ev.After
	}
	assert.Equal(t, m.State(), prev)
}

func TestConsume_RunsHandlersUntilClosed(t *testing.T) {
	bus := NewBus(nil)
	events, unsubscribe := bus.Subscribe(4)

	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, "booking_interactions", "session-3", mock.AnythingOfType("bookingflow.Event")).
		Return(nil).Once()
	producer.On("Publish", mock.Anything, "booking_interactions", "session-3", mock.AnythingOfType("bookingflow.Event")).
		Return(errors.New("broker down")).Once()

	m := NewMachine("session-3", bus, nil)
	m.Dispatch(SetDate("2025-06-01"))
	m.Dispatch(SetStep(7, DirectionForward))
	unsubscribe()

	var seen []ActionKind
	Consume(context.Background(), events,
		func(_ context.Context, ev Event) { seen = append(seen, ev.Action) },
		LogHandler(logger.Nop()),
		MetricsHandler(nil),
		PublishHandler(producer, "booking_interactions", logger.Nop()),
	)

	require.Len(t, seen, 2)
	assert.Equal(t, []ActionKind{ActionSetDate, ActionSetStep}, seen)
	producer.AssertExpectations(t)
}
