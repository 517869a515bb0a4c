package availability

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wesleysambacht/booking/internal/domain"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetAvailabilitySlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}

func (m *MockSource) GetAvailableTimeSlots(ctx context.Context, date string) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}

func (m *MockSource) CheckAvailability(ctx context.Context, date, timeSlot string) (bool, error) {
	args := m.Called(ctx, date, timeSlot)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}

func (m *MockCache) SetSlots(ctx context.Context, startDate, endDate string, slots []domain.AvailabilitySlot) error {
	args := m.Called(ctx, startDate, endDate, slots)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
