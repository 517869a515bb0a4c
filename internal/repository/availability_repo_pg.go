package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wesleysambacht/booking/internal/domain"
)

const slotsTable = "availability_slots"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var slotColumns = []string{"date", "time_slot", "max_bookings", "current_bookings", "is_blocked"}

type AvailabilityRepository interface {
	GetAvailabilitySlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error)
	GetAvailableTimeSlots(ctx context.Context, date string) ([]domain.AvailabilitySlot, error)
	CheckAvailability(ctx context.Context, date, timeSlot string) (bool, error)
}

type PGAvailabilityRepository struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepository(db *pgxpool.Pool) *PGAvailabilityRepository {
	return &PGAvailabilityRepository{db: db}
}

func (r *PGAvailabilityRepository) GetAvailabilitySlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	query, args, err := rangeQuery(startDate, endDate).ToSql()
	if err != nil {
		return nil, err
	}
	return r.querySlots(ctx, query, args...)
}

// GetAvailableTimeSlots returns the open slots of one date ordered by time.
func (r *PGAvailabilityRepository) GetAvailableTimeSlots(ctx context.Context, date string) ([]domain.AvailabilitySlot, error) {
	query, args, err := openSlotsQuery(date).ToSql()
	if err != nil {
		return nil, err
	}
	return r.querySlots(ctx, query, args...)
}

func (r *PGAvailabilityRepository) CheckAvailability(ctx context.Context, date, timeSlot string) (bool, error) {
	query, args, err := slotQuery(date, timeSlot).ToSql()
	if err != nil {
		return false, err
	}

	s, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.IsOpen(), nil
}

func (r *PGAvailabilityRepository) querySlots(ctx context.Context, query string, args ...interface{}) ([]domain.AvailabilitySlot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func rangeQuery(startDate, endDate string) sq.SelectBuilder {
	return psql.Select(slotColumns...).
		From(slotsTable).
		Where(sq.GtOrEq{"date": startDate}).
		Where(sq.LtOrEq{"date": endDate}).
		OrderBy("date", "time_slot")
}

func openSlotsQuery(date string) sq.SelectBuilder {
	return psql.Select(slotColumns...).
		From(slotsTable).
		Where(sq.Eq{"date": date, "is_blocked": false}).
		Where("current_bookings < max_bookings").
		OrderBy("time_slot")
}

func slotQuery(date, timeSlot string) sq.SelectBuilder {
	return psql.Select(slotColumns...).
		From(slotsTable).
		Where(sq.Eq{"date": date, "time_slot": timeSlot})
}

func scanSlot(row pgx.Row) (domain.AvailabilitySlot, error) {
	var (
		s    domain.AvailabilitySlot
		date time.Time
	)
	if err := row.Scan(&date, &s.TimeSlot, &s.MaxBookings, &s.CurrentBookings, &s.IsBlocked); err != nil {
		return domain.AvailabilitySlot{}, err
	}
	s.Date = date.Format(domain.DateFormat)
	return s, nil
}

var _ AvailabilityRepository = (*PGAvailabilityRepository)(nil)
