package domain

import "time"

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// AvailabilitySlot is one bookable time slot on a calendar day. Slots are owned by the
// backend; this service only reads snapshots of them.
type AvailabilitySlot struct {
	Date            string `json:"date"`
	TimeSlot        string `json:"timeSlot"`
	MaxBookings     int    `json:"maxBookings"`
	CurrentBookings int    `json:"currentBookings"`
	IsBlocked       bool   `json:"isBlocked"`
}

// IsFull returns true if the slot has no openings left
func (s *AvailabilitySlot) IsFull() bool {
	return s.CurrentBookings >= s.MaxBookings
}

// Remaining returns the number of openings left, never negative
func (s *AvailabilitySlot) Remaining() int {
	if s.IsFull() {
		return 0
	}
	return s.MaxBookings - s.CurrentBookings
}

// IsOpen returns true if the slot can still take a booking
func (s *AvailabilitySlot) IsOpen() bool {
	return !s.IsBlocked && !s.IsFull()
}

// IsLastSpot returns true if exactly one booking would fill the slot
func (s *AvailabilitySlot) IsLastSpot() bool {
	return s.IsOpen() && s.Remaining() == 1
}

// ParseDate parses a day-granularity ISO date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateFormat, value)
}

// NormalizeDate returns value in DateFormat, accepting full RFC3339 timestamps as well.
func NormalizeDate(value string) (string, error) {
	if d, err := time.Parse(DateFormat, value); err == nil {
		return d.Format(DateFormat), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", err
	}
	return ts.Format(DateFormat), nil
}

// ParseTime parses a time-of-day label such as "18:00".
func ParseTime(value string) (time.Time, error) {
	return time.Parse(TimeFormat, value)
}
