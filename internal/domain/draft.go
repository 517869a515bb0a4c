package domain

// Step is the position in the three step booking flow.
type Step int

const (
	StepDate   Step = 1
	StepTime   Step = 2
	StepGuests Step = 3
)

// Valid returns true for the steps the flow knows about
func (s Step) Valid() bool {
	return s >= StepDate && s <= StepGuests
}

// Guest count bounds enforced by the guest step
const (
	MinGuestCount     = 10
	MaxGuestCount     = 500
	DefaultGuestCount = 50
	GuestCountStep    = 10
)

// BookingDraft is the in-progress booking of one visitor. An empty SelectedDate means no
// date was picked yet.
type BookingDraft struct {
	SelectedDate string `json:"selected_date,omitempty"`
	SelectedTime string `json:"selected_time"`
	GuestCount   int    `json:"guest_count"`
	Step         Step   `json:"step"`
}

// NewBookingDraft returns the draft a freshly opened flow starts from
func NewBookingDraft() BookingDraft {
	return BookingDraft{
		SelectedDate: "",
		SelectedTime: "",
		GuestCount:   DefaultGuestCount,
		Step:         StepDate,
	}
}

// HasDate returns true if a date was picked
func (d BookingDraft) HasDate() bool {
	return d.SelectedDate != ""
}

// HasTime returns true if a time was picked
func (d BookingDraft) HasTime() bool {
	return d.SelectedTime != ""
}

// Ready returns true once the draft can be handed to submission
func (d BookingDraft) Ready() bool {
	return d.Step == StepGuests && d.HasDate() && d.HasTime() && d.GuestCount > 0
}
