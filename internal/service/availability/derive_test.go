package availability

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wesleysambacht/booking/internal/domain"
)

func slot(date, time string, current, max int) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{Date: date, TimeSlot: time, CurrentBookings: current, MaxBookings: max}
}

func TestDerive_FullSlotIsBooked(t *testing.T) {
	d := Derive([]domain.AvailabilitySlot{slot("2025-06-01", "18:00", 3, 3)})

	assert.True(t, d.IsBooked("2025-06-01"))
	assert.False(t, d.IsAvailable("2025-06-01"))
	assert.False(t, d.IsLimited("2025-06-01"))
	assert.Equal(t, []string{"2025-06-01"}, d.BookedDates)
}

func TestDerive_LastSpotIsLimited(t *testing.T) {
	d := Derive([]domain.AvailabilitySlot{slot("2025-06-01", "18:00", 2, 3)})

	assert.True(t, d.IsLimited("2025-06-01"))
	assert.False(t, d.IsBooked("2025-06-01"))
	assert.True(t, d.IsAvailable("2025-06-01"))
}

func TestDerive_MixedDay(t *testing.T) {
	d := Derive([]domain.AvailabilitySlot{
		slot("2025-06-02", "12:00", 3, 3),
		slot("2025-06-02", "18:00", 0, 3),
	})

	assert.False(t, d.IsBooked("2025-06-02"))
	assert.False(t, d.IsLimited("2025-06-02"))
	assert.True(t, d.IsAvailable("2025-06-02"))
}

func TestDerive_BlockedSlots(t *testing.T) {
	blocked := slot("2025-06-03", "18:00", 2, 3)
	blocked.IsBlocked = true

	d := Derive([]domain.AvailabilitySlot{blocked})

	assert.False(t, d.IsAvailable("2025-06-03"))
	assert.False(t, d.IsBooked("2025-06-03"))
	assert.False(t, d.IsLimited("2025-06-03"))
}

func TestDerive_UnknownDateIsNothing(t *testing.T) {
	d := Derive(nil)

	assert.False(t, d.IsBooked("2025-06-01"))
	assert.False(t, d.IsAvailable("2025-06-01"))
	assert.Empty(t, d.BookedDates)
	assert.Equal(t, []string{}, d.TimeSlotsByPeriod[domain.PeriodEvening])
}

func TestDerive_TimeSlotsByPeriod(t *testing.T) {
	d := Derive([]domain.AvailabilitySlot{
		slot("2025-06-01", "18:00", 0, 2),
		slot("2025-06-02", "18:00", 0, 2),
		slot("2025-06-01", "10:30", 0, 2),
		slot("2025-06-01", "12:00", 0, 2),
		slot("2025-06-01", "20:00", 0, 2),
		slot("2025-06-01", "08:00", 0, 2),
		slot("2025-06-01", "16:00", 0, 2),
	})

	assert.Equal(t, []string{"10:30"}, d.TimeSlotsByPeriod[domain.PeriodMorning])
	assert.Equal(t, []string{"12:00"}, d.TimeSlotsByPeriod[domain.PeriodAfternoon])
	assert.Equal(t, []string{"16:00", "18:00", "20:00"}, d.TimeSlotsByPeriod[domain.PeriodEvening])
}

func TestDerive_Idempotent(t *testing.T) {
	slots := []domain.AvailabilitySlot{
		slot("2025-06-01", "18:00", 3, 3),
		slot("2025-06-02", "18:00", 2, 3),
		slot("2025-06-03", "12:00", 0, 3),
	}

	first := Derive(slots)
	second := Derive(slots)

	assert.Equal(t, first, second)
	assert.Equal(t, first.BookedDates, second.BookedDates)
	assert.Equal(t, first.LimitedDates, second.LimitedDates)
}

func TestHash_IgnoresOrderButNotContent(t *testing.T) {
	a := slot("2025-06-01", "18:00", 1, 3)
	b := slot("2025-06-02", "12:00", 0, 3)

	assert.Equal(t, Hash([]domain.AvailabilitySlot{a, b}), Hash([]domain.AvailabilitySlot{b, a}))

	changed := a
	changed.CurrentBookings++
	assert.NotEqual(t, Hash([]domain.AvailabilitySlot{a, b}), Hash([]domain.AvailabilitySlot{changed, b}))
}

func TestDerive_BookedExcludesAvailable(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dates := []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04"}
	times := []string{"10:00", "12:00", "16:00", "18:00"}

	for round := 0; round < 200; round++ {
		var slots []domain.AvailabilitySlot
		for i := 0; i < rng.Intn(12); i++ {
			max := rng.Intn(4)
			s := slot(dates[rng.Intn(len(dates))], times[rng.Intn(len(times))], rng.Intn(max+1), max)
			s.IsBlocked = rng.Intn(5) == 0
			slots = append(slots, s)
		}

		d := Derive(slots)
		for _, date := range dates {
			if d.IsBooked(date) {
				assert.False(t, d.IsAvailable(date), "round %d date %s", round, date)
				assert.False(t, d.IsLimited(date), "round %d date %s", round, date)
			}
		}
	}
}
