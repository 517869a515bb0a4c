// Package steps holds the three steps of the date-checker. Steps read the draft and the
// availability view and turn visitor input into bookingflow actions; they never change
// state themselves.
package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrDateInPast         = errors.New("date is in the past")
	ErrDateUnavailable    = errors.New("date is not available")
	ErrDateRequired       = errors.New("select a date first")
	ErrInvalidTime        = errors.New("invalid time")
	ErrTimeUnavailable    = errors.New("time slot is not available")
	ErrTimeRequired       = errors.New("select a time first")
	ErrGuestCountOutRange = fmt.Errorf("guest count must be between %d and %d", domain.MinGuestCount, domain.MaxGuestCount)
	ErrInvalidStep        = errors.New("invalid step")
)

// Availability is the read side of the availability store.
type Availability interface {
	IsDateAvailable(date string) bool
	IsDateBooked(date string) bool
	IsDateLimited(date string) bool
	TimeSlotsForDate(ctx context.Context, date string) []domain.AvailabilitySlot
}

// CanEnter checks the prerequisites of a step. SET_STEP does not check them, so callers
// run this before navigating forward.
func CanEnter(draft domain.BookingDraft, step domain.Step) error {
	if !step.Valid() {
		return ErrInvalidStep
	}
	if step >= domain.StepTime && !draft.HasDate() {
		return ErrDateRequired
	}
	if step >= domain.StepGuests && !draft.HasTime() {
		return ErrTimeRequired
	}
	return nil
}

// View is the current step rendered for the client. Exactly one of the step fields is set.
type View struct {
	Step   domain.Step `json:"step"`
	Date   *DateView   `json:"date,omitempty"`
	Time   *TimeView   `json:"time,omitempty"`
	Guests *GuestView  `json:"guests,omitempty"`
}

// Steps bundles the three steps over one availability source.
type Steps struct {
	Date   *DateStep
	Time   *TimeStep
	Guests *GuestStep
}

func New(availability Availability, now func() time.Time) *Steps {
	return &Steps{
		Date:   NewDateStep(availability, now),
		Time:   NewTimeStep(availability),
		Guests: NewGuestStep(),
	}
}

// ViewFor renders the step the draft is on. DaysAhead bounds the date calendar.
func (s *Steps) ViewFor(ctx context.Context, draft domain.BookingDraft, daysAhead int) View {
	switch draft.Step {
	case domain.StepTime:
		v := s.Time.View(ctx, draft)
		return View{Step: draft.Step, Time: &v}
	case domain.StepGuests:
		v := s.Guests.View(draft)
		return View{Step: draft.Step, Guests: &v}
	default:
		v := s.Date.View(draft, "", daysAhead)
		return View{Step: domain.StepDate, Date: &v}
	}
}
