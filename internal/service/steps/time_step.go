package steps

import (
	"context"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/service/bookingflow"
)

type SlotView struct {
	Time      string `json:"time"`
	Remaining int    `json:"remaining"`
	Available bool   `json:"available"`
	LastSpot  bool   `json:"last_spot"`
	Selected  bool   `json:"selected"`
}

type PeriodView struct {
	Period domain.Period `json:"period"`
	Slots  []SlotView    `json:"slots"`
}

type TimeView struct {
	Date     string       `json:"date"`
	Selected string       `json:"selected,omitempty"`
	Periods  []PeriodView `json:"periods"`
}

type TimeStep struct {
	availability Availability
}

func NewTimeStep(availability Availability) *TimeStep {
	return &TimeStep{availability: availability}
}

// View groups the selected date's slots by day part. Labels outside the day parts are
// not shown.
func (s *TimeStep) View(ctx context.Context, draft domain.BookingDraft) TimeView {
	view := TimeView{Date: draft.SelectedDate, Selected: draft.SelectedTime, Periods: []PeriodView{}}
	if !draft.HasDate() {
		return view
	}

	grouped := make(map[domain.Period][]SlotView)
	for _, slot := range s.availability.TimeSlotsForDate(ctx, draft.SelectedDate) {
		period, ok := domain.PeriodOf(slot.TimeSlot)
		if !ok {
			continue
		}
		grouped[period] = append(grouped[period], SlotView{
			Time:      slot.TimeSlot,
			Remaining: slot.Remaining(),
			Available: slot.IsOpen(),
			LastSpot:  slot.IsLastSpot(),
			Selected:  slot.TimeSlot == draft.SelectedTime,
		})
	}
	for _, period := range domain.Periods {
		if slots, ok := grouped[period]; ok {
			view.Periods = append(view.Periods, PeriodView{Period: period, Slots: slots})
		}
	}
	return view
}

// Select turns a picked time into SET_TIME. The time must be an open slot of the
// selected date.
func (s *TimeStep) Select(ctx context.Context, draft domain.BookingDraft, label string) (bookingflow.Action, error) {
	if !draft.HasDate() {
		return bookingflow.Action{}, ErrDateRequired
	}
	t, err := domain.ParseTime(label)
	if err != nil {
		return bookingflow.Action{}, ErrInvalidTime
	}
	label = t.Format(domain.TimeFormat)

	for _, slot := range s.availability.TimeSlotsForDate(ctx, draft.SelectedDate) {
		if slot.TimeSlot == label && slot.IsOpen() {
			return bookingflow.SetTime(label), nil
		}
	}
	return bookingflow.Action{}, ErrTimeUnavailable
}
