// Package bookingflow is the state machine behind the date-checker: a pure reducer over
// the booking draft and a Machine that serializes dispatches and publishes one
// interaction event per transition.
package bookingflow

import "github.com/wesleysambacht/booking/internal/domain"

type ActionKind string

const (
	ActionSetDate       ActionKind = "SET_DATE"
	ActionSetTime       ActionKind = "SET_TIME"
	ActionSetGuestCount ActionKind = "SET_GUEST_COUNT"
	ActionSetStep       ActionKind = "SET_STEP"
	ActionReset         ActionKind = "RESET_STATE"
)

type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Action is one intent dispatched into the machine. Only the fields of its Kind are read.
type Action struct {
	Kind       ActionKind  `json:"type"`
	Date       string      `json:"date,omitempty"`
	Time       string      `json:"time,omitempty"`
	GuestCount int         `json:"guest_count,omitempty"`
	Step       domain.Step `json:"step,omitempty"`
	Direction  Direction   `json:"direction,omitempty"`
}

func SetDate(date string) Action {
	return Action{Kind: ActionSetDate, Date: date}
}

func SetTime(time string) Action {
	return Action{Kind: ActionSetTime, Time: time}
}

func SetGuestCount(count int) Action {
	return Action{Kind: ActionSetGuestCount, GuestCount: count}
}

func SetStep(step domain.Step, direction Direction) Action {
	return Action{Kind: ActionSetStep, Step: step, Direction: direction}
}

func Reset() Action {
	return Action{Kind: ActionReset}
}

// InitialState is the draft every flow starts from and returns to on reset.
func InitialState() domain.BookingDraft {
	return domain.NewBookingDraft()
}

// Reduce applies action to state. It has no side effects; the returned Event describes
// the transition and is left to the caller to publish.
//
// SET_DATE keeps a previously selected time. The event flags it as StaleTime so the
// flow can be observed; the time is only replaced by the next SET_TIME.
func Reduce(state domain.BookingDraft, action Action) (domain.BookingDraft, Event) {
	next := state
	ignored := false

	switch action.Kind {
	case ActionSetDate:
		next.SelectedDate = action.Date
		next.Step = domain.StepTime
	case ActionSetTime:
		next.SelectedTime = action.Time
		next.Step = domain.StepGuests
	case ActionSetGuestCount:
		next.GuestCount = action.GuestCount
	case ActionSetStep:
		if action.Step.Valid() {
			next.Step = action.Step
		} else {
			ignored = true
		}
	case ActionReset:
		next = InitialState()
	default:
		ignored = true
	}

	return next, newEvent(action, state, next, ignored)
}
