package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/errclass"
	"github.com/wesleysambacht/booking/internal/logger"
)

type MockBookingCreator struct {
	mock.Mock
}

func (m *MockBookingCreator) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockSlotChecker struct {
	mock.Mock
}

func (m *MockSlotChecker) CheckSlotAvailability(ctx context.Context, date, timeSlot string) bool {
	return m.Called(ctx, date, timeSlot).Bool(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingCreated(ctx context.Context, booking domain.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func completeDraft() domain.BookingDraft {
	return domain.BookingDraft{SelectedDate: "2025-06-01", SelectedTime: "18:00", GuestCount: 75, Step: domain.StepGuests}
}

func customer() domain.CustomerDetails {
	return domain.CustomerDetails{
		Name:            "Jan de Vries",
		Email:           "jan@example.nl",
		Phone:           "0612345678",
		ServiceCategory: "wedding",
		ServiceTier:     "premium",
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		draft  domain.BookingDraft
		valid  bool
		errors []string
	}{
		{name: "Complete", draft: completeDraft(), valid: true, errors: []string{}},
		{
			name:   "Missing time",
			draft:  domain.BookingDraft{SelectedDate: "2025-06-01", SelectedTime: "", GuestCount: 50, Step: domain.StepGuests},
			errors: []string{msgTimeRequired},
		},
		{
			name:   "Empty draft",
			draft:  domain.BookingDraft{},
			errors: []string{msgDateRequired, msgTimeRequired, msgGuestsRequired},
		},
		{
			name:   "Fields set but not on last step",
			draft:  domain.BookingDraft{SelectedDate: "2025-06-01", SelectedTime: "18:00", GuestCount: 50, Step: domain.StepTime},
			errors: []string{msgStepsIncomplete},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(tc.draft)
			assert.Equal(t, tc.valid, result.Valid)
			assert.Equal(t, tc.errors, result.Errors)
		})
	}
}

func TestValidateCustomer(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	assert.True(t, ValidateCustomer(v, customer()).Valid)

	bad := customer()
	bad.Email = "jan-at-example"
	bad.Name = ""
	result := ValidateCustomer(v, bad)
	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{"Vul uw naam in.", "Vul een geldig e-mailadres in."}, result.Errors)

	bad = customer()
	bad.ServiceTier = "gold"
	assert.Equal(t, []string{"Kies een geldig pakket."}, ValidateCustomer(v, bad).Errors)
}

func TestService_Submit_IncompleteDraftSkipsCollaborators(t *testing.T) {
	creator := &MockBookingCreator{}
	checker := &MockSlotChecker{}
	service := NewService(creator, logger.Nop(), WithSlotChecker(checker))

	draft := completeDraft()
	draft.SelectedTime = ""

	confirmation, err := service.Submit(context.Background(), draft, customer())

	assert.Nil(t, confirmation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, verr.Result.Valid)
	assert.Contains(t, verr.Result.Errors, msgTimeRequired)
	creator.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	checker.AssertNotCalled(t, "CheckSlotAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Submit_Success(t *testing.T) {
	creator := &MockBookingCreator{}
	checker := &MockSlotChecker{}
	notifier := &MockNotifier{}
	service := NewService(creator, logger.Nop(), WithSlotChecker(checker), WithNotifier(notifier))
	ctx := context.Background()

	expectedReq := domain.BookingRequest{
		CustomerName:    "Jan de Vries",
		CustomerEmail:   "jan@example.nl",
		CustomerPhone:   "0612345678",
		EventDate:       "2025-06-01",
		EventTime:       "18:00",
		GuestCount:      75,
		ServiceCategory: "wedding",
		ServiceTier:     "premium",
	}
	booking := &domain.Booking{
		ID:            "bk-1",
		CustomerName:  "Jan de Vries",
		CustomerEmail: "jan@example.nl",
		EventDate:     "2025-06-01",
		EventTime:     "18:00",
		GuestCount:    75,
		Status:        domain.BookingStatusPending,
		CreatedAt:     time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
	}

	checker.On("CheckSlotAvailability", ctx, "2025-06-01", "18:00").Return(true).Once()
	creator.On("CreateBooking", ctx, expectedReq).Return(booking, nil).Once()
	notifier.On("BookingCreated", ctx, *booking).Return(errors.New("kafka down")).Once()

	confirmation, err := service.Submit(ctx, completeDraft(), customer())

	require.NoError(t, err)
	assert.Equal(t, "bk-1", confirmation.Booking.ID)
	assert.Equal(t, domain.ToastSuccess, confirmation.Toast.Kind)
	assert.Equal(t, toastSuccessTitle, confirmation.Toast.Title)

	checker.AssertExpectations(t)
	creator.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Submit_AdvisoryCheckRejects(t *testing.T) {
	creator := &MockBookingCreator{}
	checker := &MockSlotChecker{}
	service := NewService(creator, logger.Nop(), WithSlotChecker(checker))

	checker.On("CheckSlotAvailability", mock.Anything, "2025-06-01", "18:00").Return(false).Once()

	confirmation, err := service.Submit(context.Background(), completeDraft(), customer())

	assert.Nil(t, confirmation)
	var ue *errclass.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, errclass.KindBusiness, ue.Kind)
	creator.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestService_Submit_ClassifiesBackendErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind errclass.Kind
	}{
		{name: "Network", err: errors.New("dial tcp: connection refused"), kind: errclass.KindNetwork},
		{name: "Business code", err: domain.ErrSlotUnavailable, kind: errclass.KindBusiness},
		{name: "Validation", err: errors.New("guestCount is invalid"), kind: errclass.KindValidation},
		{name: "System", err: errors.New("unexpected EOF"), kind: errclass.KindSystem},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creator := &MockBookingCreator{}
			service := NewService(creator, logger.Nop())
			creator.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			confirmation, err := service.Submit(context.Background(), completeDraft(), customer())

			assert.Nil(t, confirmation)
			var ue *errclass.UserError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tc.kind, ue.Kind)
			assert.Equal(t, errclass.Message(tc.kind, errclass.ContextBooking), err.Error())
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestService_Submit_NoCreator(t *testing.T) {
	service := NewService(nil, logger.Nop())
	_, err := service.Submit(context.Background(), completeDraft(), customer())
	assert.ErrorIs(t, err, ErrNilCreator)
}
