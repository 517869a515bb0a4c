package steps

import (
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/service/bookingflow"
)

const DefaultCalendarDays = 42

type DayView struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Booked    bool   `json:"booked"`
	Limited   bool   `json:"limited"`
	Selected  bool   `json:"selected"`
	Past      bool   `json:"past"`
}

type DateView struct {
	Selected string    `json:"selected,omitempty"`
	Days     []DayView `json:"days"`
}

type DateStep struct {
	availability Availability
	now          func() time.Time
}

func NewDateStep(availability Availability, now func() time.Time) *DateStep {
	if now == nil {
		now = time.Now
	}
	return &DateStep{availability: availability, now: now}
}

func (s *DateStep) today() string {
	return s.now().Format(domain.DateFormat)
}

// View lists days calendar days starting at from (today when empty or malformed).
func (s *DateStep) View(draft domain.BookingDraft, from string, days int) DateView {
	if days <= 0 {
		days = DefaultCalendarDays
	}
	start, err := domain.ParseDate(from)
	if err != nil {
		start, _ = domain.ParseDate(s.today())
	}
	today := s.today()

	view := DateView{Selected: draft.SelectedDate, Days: make([]DayView, 0, days)}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(domain.DateFormat)
		past := date < today
		view.Days = append(view.Days, DayView{
			Date:      date,
			Available: !past && s.availability.IsDateAvailable(date),
			Booked:    s.availability.IsDateBooked(date),
			Limited:   !past && s.availability.IsDateLimited(date),
			Selected:  date == draft.SelectedDate,
			Past:      past,
		})
	}
	return view
}

// Select turns a picked day into SET_DATE. Only available days from today onwards can
// be picked.
func (s *DateStep) Select(date string) (bookingflow.Action, error) {
	normalized, err := domain.NormalizeDate(date)
	if err != nil {
		return bookingflow.Action{}, ErrInvalidDate
	}
	if normalized < s.today() {
		return bookingflow.Action{}, ErrDateInPast
	}
	if !s.availability.IsDateAvailable(normalized) {
		return bookingflow.Action{}, ErrDateUnavailable
	}
	return bookingflow.SetDate(normalized), nil
}
