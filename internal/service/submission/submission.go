package submission

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/errclass"
	"github.com/wesleysambacht/booking/internal/metrics"
)

const (
	toastSuccessTitle       = "Reservering ontvangen!"
	toastSuccessDescription = "Bedankt voor uw aanvraag. We nemen binnen 24 uur contact met u op om alles te bevestigen."
)

var ErrNilCreator = errors.New("submission: booking creator is not configured")

// BookingCreator is the backend endpoint that creates bookings.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
}

// SlotChecker gives an advisory answer before the booking is created.
type SlotChecker interface {
	CheckSlotAvailability(ctx context.Context, date, timeSlot string) bool
}

// Notifier is told about every booking that was created.
type Notifier interface {
	BookingCreated(ctx context.Context, booking domain.Booking) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type Service struct {
	creator   BookingCreator
	checker   SlotChecker
	notifier  Notifier
	validator *validator.Validate
	metrics   *metrics.Metrics
	log       Logger
}

type Option func(*Service)

func WithSlotChecker(checker SlotChecker) Option {
	return func(s *Service) { s.checker = checker }
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(creator BookingCreator, log Logger, opts ...Option) *Service {
	s := &Service{
		creator:   creator,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the draft only.
func (s *Service) Validate(draft domain.BookingDraft) ValidationResult {
	return Validate(draft)
}

// Submit creates the booking for a complete draft. It returns *ValidationError for an
// incomplete draft or customer details and *errclass.UserError for every backend
// failure. It does not retry.
func (s *Service) Submit(ctx context.Context, draft domain.BookingDraft, customer domain.CustomerDetails) (*domain.BookingConfirmation, error) {
	result := merge(Validate(draft), ValidateCustomer(s.validator, customer))
	if !result.Valid {
		s.metrics.ObserveSubmission("invalid", string(errclass.KindValidation))
		return nil, &ValidationError{Result: result}
	}
	if s.creator == nil {
		return nil, ErrNilCreator
	}

	if s.checker != nil && !s.checker.CheckSlotAvailability(ctx, draft.SelectedDate, draft.SelectedTime) {
		s.log.Info("slot %s %s no longer available, booking not sent", draft.SelectedDate, draft.SelectedTime)
		s.metrics.ObserveSubmission("rejected", string(errclass.KindBusiness))
		return nil, errclass.New(errclass.KindBusiness, errclass.ContextBooking)
	}

	booking, err := s.creator.CreateBooking(ctx, domain.BookingRequest{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		EventDate:       draft.SelectedDate,
		EventTime:       draft.SelectedTime,
		GuestCount:      draft.GuestCount,
		ServiceCategory: customer.ServiceCategory,
		ServiceTier:     customer.ServiceTier,
		Notes:           customer.Notes,
	})
	if err != nil {
		ue := errclass.Wrap(err, errclass.ContextBooking)
		s.log.Error("create booking for %s %s failed (%s): %v", draft.SelectedDate, draft.SelectedTime, ue.Kind, err)
		s.metrics.ObserveSubmission("failed", string(ue.Kind))
		return nil, ue
	}

	s.log.Info("booking %s created for %s %s (%d guests)", booking.ID, booking.EventDate, booking.EventTime, booking.GuestCount)
	s.metrics.ObserveSubmission("success", "")

	if s.notifier != nil {
		if err := s.notifier.BookingCreated(ctx, *booking); err != nil {
			s.log.Warn("notify booking %s: %v", booking.ID, err)
		}
	}

	return &domain.BookingConfirmation{
		Booking: *booking,
		Toast: domain.Toast{
			Kind:        domain.ToastSuccess,
			Title:       toastSuccessTitle,
			Description: toastSuccessDescription,
		},
	}, nil
}
