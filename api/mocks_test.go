package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/service/availability"
)

// stubStore serves a fixed snapshot.
type stubStore struct {
	slots    []domain.AvailabilitySlot
	lookedUp [][2]string
}

func (s *stubStore) Lookup(ctx context.Context, startDate, endDate string) availability.Derived {
	s.lookedUp = append(s.lookedUp, [2]string{startDate, endDate})
	var inRange []domain.AvailabilitySlot
	for _, slot := range s.slots {
		if slot.Date >= startDate && slot.Date <= endDate {
			inRange = append(inRange, slot)
		}
	}
	return availability.Derive(inRange)
}

func (s *stubStore) WindowDays() int { return availability.DefaultWindowDays }

func (s *stubStore) Derived() availability.Derived {
	return availability.Derive(s.slots)
}

func (s *stubStore) IsDateAvailable(date string) bool { return s.Derived().IsAvailable(date) }

func (s *stubStore) IsDateBooked(date string) bool { return s.Derived().IsBooked(date) }

func (s *stubStore) IsDateLimited(date string) bool { return s.Derived().IsLimited(date) }

func (s *stubStore) TimeSlotsForDate(ctx context.Context, date string) []domain.AvailabilitySlot {
	out := []domain.AvailabilitySlot{}
	for _, slot := range s.slots {
		if slot.Date == date {
			out = append(out, slot)
		}
	}
	return out
}

func (s *stubStore) CheckSlotAvailability(ctx context.Context, date, timeSlot string) bool {
	for _, slot := range s.TimeSlotsForDate(ctx, date) {
		if slot.TimeSlot == timeSlot {
			return slot.IsOpen()
		}
	}
	return false
}

// stubSource is a backend with a fixed slot table.
type stubSource struct {
	slots []domain.AvailabilitySlot
}

func (s *stubSource) GetAvailabilitySlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	out := []domain.AvailabilitySlot{}
	for _, slot := range s.slots {
		if slot.Date >= startDate && slot.Date <= endDate {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *stubSource) GetAvailableTimeSlots(ctx context.Context, date string) ([]domain.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubSource) CheckAvailability(ctx context.Context, date, timeSlot string) (bool, error) {
	return false, nil
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, draft domain.BookingDraft, customer domain.CustomerDetails) (*domain.BookingConfirmation, error) {
	args := m.Called(ctx, draft, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingConfirmation), args.Error(1)
}

func fixtureSlots() []domain.AvailabilitySlot {
	return []domain.AvailabilitySlot{
		{Date: "2025-06-14", TimeSlot: "12:00", MaxBookings: 2, CurrentBookings: 0},
		{Date: "2025-06-14", TimeSlot: "18:00", MaxBookings: 2, CurrentBookings: 1},
		{Date: "2025-06-21", TimeSlot: "18:00", MaxBookings: 1, CurrentBookings: 1},
	}
}
