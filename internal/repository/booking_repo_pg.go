package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wesleysambacht/booking/internal/domain"
)

const bookingsTable = "bookings"

type BookingRepository interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db, now: time.Now}
}

// CreateBooking claims one place in the slot and stores the booking in the same transaction.
func (r *PGBookingRepository) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query, args, err := slotQuery(req.EventDate, req.EventTime).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	slot, err := scanSlot(tx.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	if !slot.IsOpen() {
		return nil, domain.ErrSlotUnavailable
	}

	query, args, err = claimQuery(req.EventDate, req.EventTime).ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, err
	}

	booking := newBooking(req, r.now())
	query, args, err = insertBookingQuery(booking).ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &booking, nil
}

func newBooking(req domain.BookingRequest, now time.Time) domain.Booking {
	return domain.Booking{
		ID:              uuid.NewString(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		EventDate:       req.EventDate,
		EventTime:       req.EventTime,
		GuestCount:      req.GuestCount,
		ServiceCategory: req.ServiceCategory,
		ServiceTier:     req.ServiceTier,
		Notes:           req.Notes,
		Status:          domain.BookingStatusPending,
		CreatedAt:       now.UTC(),
	}
}

func claimQuery(date, timeSlot string) sq.UpdateBuilder {
	return psql.Update(slotsTable).
		Set("current_bookings", sq.Expr("current_bookings + 1")).
		Where(sq.Eq{"date": date, "time_slot": timeSlot})
}

func insertBookingQuery(b domain.Booking) sq.InsertBuilder {
	return psql.Insert(bookingsTable).
		Columns("id", "customer_name", "customer_email", "customer_phone", "event_date", "event_time",
			"guest_count", "service_category", "service_tier", "notes", "status", "created_at").
		Values(b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.EventDate, b.EventTime,
			b.GuestCount, b.ServiceCategory, b.ServiceTier, b.Notes, string(b.Status), b.CreatedAt)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
