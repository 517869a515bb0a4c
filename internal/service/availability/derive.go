package availability

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/wesleysambacht/booking/internal/domain"
)

// Derived is the per-date classification of one slot snapshot. It is never mutated after
// Derive returns it.
type Derived struct {
	Hash              uint64
	BookedDates       []string
	LimitedDates      []string
	AvailableDates    []string
	TimeSlotsByPeriod map[domain.Period][]string

	booked    map[string]struct{}
	limited   map[string]struct{}
	available map[string]struct{}
}

func (d Derived) IsBooked(date string) bool {
	_, ok := d.booked[date]
	return ok
}

func (d Derived) IsLimited(date string) bool {
	_, ok := d.limited[date]
	return ok
}

func (d Derived) IsAvailable(date string) bool {
	_, ok := d.available[date]
	return ok
}

type dayTally struct {
	slots    int
	full     int
	open     int
	lastSpot int
}

// Derive classifies every date of the snapshot. A date is booked when it has slots and
// all of them are full, available when at least one unblocked slot has room, and limited
// when it is not booked and an unblocked slot has exactly one opening left. Slots with a
// malformed date are ignored.
func Derive(slots []domain.AvailabilitySlot) Derived {
	days := make(map[string]*dayTally)
	labels := make(map[string]struct{})

	for i := range slots {
		s := &slots[i]
		date, err := domain.NormalizeDate(s.Date)
		if err != nil {
			continue
		}
		tally, ok := days[date]
		if !ok {
			tally = &dayTally{}
			days[date] = tally
		}
		tally.slots++
		if s.IsFull() {
			tally.full++
		}
		if s.IsOpen() {
			tally.open++
		}
		if s.IsLastSpot() {
			tally.lastSpot++
		}
		if s.TimeSlot != "" {
			labels[s.TimeSlot] = struct{}{}
		}
	}

	d := Derived{
		Hash:              Hash(slots),
		TimeSlotsByPeriod: make(map[domain.Period][]string, len(domain.Periods)),
		booked:            make(map[string]struct{}),
		limited:           make(map[string]struct{}),
		available:         make(map[string]struct{}),
	}

	for date, tally := range days {
		booked := tally.slots > 0 && tally.full == tally.slots
		if booked {
			d.booked[date] = struct{}{}
			d.BookedDates = append(d.BookedDates, date)
		}
		if tally.open > 0 {
			d.available[date] = struct{}{}
			d.AvailableDates = append(d.AvailableDates, date)
		}
		if !booked && tally.lastSpot > 0 {
			d.limited[date] = struct{}{}
			d.LimitedDates = append(d.LimitedDates, date)
		}
	}
	sort.Strings(d.BookedDates)
	sort.Strings(d.LimitedDates)
	sort.Strings(d.AvailableDates)

	for _, period := range domain.Periods {
		d.TimeSlotsByPeriod[period] = []string{}
	}
	for label := range labels {
		if period, ok := domain.PeriodOf(label); ok {
			d.TimeSlotsByPeriod[period] = append(d.TimeSlotsByPeriod[period], label)
		}
	}
	for _, period := range domain.Periods {
		sort.Strings(d.TimeSlotsByPeriod[period])
	}

	return d
}

// Hash is a content hash of the snapshot that ignores slot order.
func Hash(slots []domain.AvailabilitySlot) uint64 {
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		keys = append(keys, s.Date+"|"+s.TimeSlot+"|"+
			strconv.Itoa(s.MaxBookings)+"|"+
			strconv.Itoa(s.CurrentBookings)+"|"+
			strconv.FormatBool(s.IsBlocked))
	}
	sort.Strings(keys)

	digest := xxhash.New()
	for _, k := range keys {
		_, _ = digest.WriteString(k)
		_, _ = digest.WriteString("\n")
	}
	return digest.Sum64()
}
