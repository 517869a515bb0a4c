package steps

import (
	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/service/bookingflow"
)

type GuestView struct {
	GuestCount  int  `json:"guest_count"`
	Min         int  `json:"min"`
	Max         int  `json:"max"`
	Increment   int  `json:"increment"`
	CanDecrease bool `json:"can_decrease"`
	CanIncrease bool `json:"can_increase"`
}

// GuestStep owns the guest count bounds; the state machine itself accepts any count.
type GuestStep struct {
	min, max, increment int
}

func NewGuestStep() *GuestStep {
	return &GuestStep{min: domain.MinGuestCount, max: domain.MaxGuestCount, increment: domain.GuestCountStep}
}

func (s *GuestStep) View(draft domain.BookingDraft) GuestView {
	return GuestView{
		GuestCount:  draft.GuestCount,
		Min:         s.min,
		Max:         s.max,
		Increment:   s.increment,
		CanDecrease: draft.GuestCount > s.min,
		CanIncrease: draft.GuestCount < s.max,
	}
}

func (s *GuestStep) Set(count int) (bookingflow.Action, error) {
	if count < s.min || count > s.max {
		return bookingflow.Action{}, ErrGuestCountOutRange
	}
	return bookingflow.SetGuestCount(count), nil
}

// Adjust moves the count by delta increments, clamped to the bounds.
func (s *GuestStep) Adjust(draft domain.BookingDraft, delta int) bookingflow.Action {
	count := draft.GuestCount + delta*s.increment
	if count < s.min {
		count = s.min
	}
	if count > s.max {
		count = s.max
	}
	return bookingflow.SetGuestCount(count)
}
