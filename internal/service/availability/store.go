package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wesleysambacht/booking/internal/domain"
	"github.com/wesleysambacht/booking/internal/metrics"
)

const (
	DefaultWindowDays      = 180
	DefaultRefreshInterval = 5 * time.Minute
)

// Source is the backend that owns the slot rows.
type Source interface {
	GetAvailabilitySlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error)
	GetAvailableTimeSlots(ctx context.Context, date string) ([]domain.AvailabilitySlot, error)
	CheckAvailability(ctx context.Context, date, timeSlot string) (bool, error)
}

// SnapshotCache shares fetched windows between replicas. GetSlots returns nil, nil on a miss.
type SnapshotCache interface {
	GetSlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error)
	SetSlots(ctx context.Context, startDate, endDate string, slots []domain.AvailabilitySlot) error
	Invalidate(ctx context.Context) error
}

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Stats counts how often a new snapshot forced a recomputation.
type Stats struct {
	Recomputes int
	Skips      int
	Failures   int
}

type Option func(*Store)

func WithCache(cache SnapshotCache) Option {
	return func(s *Store) { s.cache = cache }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithWindowDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// Store keeps the latest slot snapshot and its derived view. All state is guarded by mu
// and only changed by Fetch, HandleChange and TimeSlotsForDate. Lookup serves other
// ranges read-only.
type Store struct {
	source          Source
	cache           SnapshotCache
	log             Logger
	metrics         *metrics.Metrics
	now             func() time.Time
	windowDays      int
	refreshInterval time.Duration

	mu          sync.Mutex
	hasSnapshot bool
	snapshot    []domain.AvailabilitySlot
	derived     Derived
	timeSlots   map[string][]domain.AvailabilitySlot
	generation  uint64
	stats       Stats
}

func NewStore(source Source, log Logger, opts ...Option) *Store {
	s := &Store{
		source:          source,
		log:             log,
		now:             time.Now,
		windowDays:      DefaultWindowDays,
		refreshInterval: DefaultRefreshInterval,
		derived:         Derive(nil),
		timeSlots:       make(map[string][]domain.AvailabilitySlot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Window returns the default fetch window: today up to windowDays ahead.
func (s *Store) Window() (string, string) {
	today := s.now()
	return today.Format(domain.DateFormat), today.AddDate(0, 0, s.windowDays).Format(domain.DateFormat)
}

// Refresh fetches the default window.
func (s *Store) Refresh(ctx context.Context) []domain.AvailabilitySlot {
	start, end := s.Window()
	return s.Fetch(ctx, start, end)
}

// Fetch loads the slots of [startDate, endDate] and makes them the current snapshot.
// Backend failures are logged and degrade to an empty snapshot.
func (s *Store) Fetch(ctx context.Context, startDate, endDate string) []domain.AvailabilitySlot {
	slots, err := s.load(ctx, startDate, endDate)
	if err != nil {
		s.mu.Lock()
		s.stats.Failures++
		s.mu.Unlock()
		s.apply(nil)
		return nil
	}
	s.apply(slots)
	return slots
}

// Lookup derives the view of [startDate, endDate] without touching the current snapshot.
// Backend failures are logged and yield an empty view.
func (s *Store) Lookup(ctx context.Context, startDate, endDate string) Derived {
	slots, err := s.load(ctx, startDate, endDate)
	if err != nil {
		return Derive(nil)
	}
	return Derive(slots)
}

// WindowDays is the length of the default window and the widest range Lookup serves.
func (s *Store) WindowDays() int {
	return s.windowDays
}

// load reads the range through the shared cache, falling back to the backend.
func (s *Store) load(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSlots(ctx, startDate, endDate); err == nil && cached != nil {
			s.metrics.ObserveFetch(metrics.FetchCacheHit)
			return cached, nil
		}
	}

	slots, err := s.source.GetAvailabilitySlots(ctx, startDate, endDate)
	if err != nil {
		s.log.Error("fetch availability %s..%s: %v", startDate, endDate, err)
		s.metrics.ObserveFetch(metrics.FetchError)
		return nil, err
	}
	s.metrics.ObserveFetch(metrics.FetchSuccess)
	s.log.Debug("fetched %d availability slots for %s..%s", len(slots), startDate, endDate)

	if s.cache != nil {
		if err := s.cache.SetSlots(ctx, startDate, endDate, slots); err != nil {
			s.log.Warn("cache availability snapshot: %v", err)
		}
	}
	return slots, nil
}

// apply installs a snapshot and reports whether the derived view was recomputed.
func (s *Store) apply(slots []domain.AvailabilitySlot) bool {
	hash := Hash(slots)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasSnapshot && hash == s.derived.Hash {
		s.snapshot = slots
		s.stats.Skips++
		s.metrics.ObserveDerivation(metrics.DeriveSkipped)
		return false
	}

	s.snapshot = slots
	s.hasSnapshot = true
	s.derived = Derive(slots)
	s.timeSlots = make(map[string][]domain.AvailabilitySlot)
	s.generation++
	s.stats.Recomputes++
	s.metrics.ObserveDerivation(metrics.DeriveRecomputed)
	return true
}

func (s *Store) IsDateAvailable(date string) bool {
	key, ok := dateKey(date)
	if !ok {
		return false
	}
	return s.Derived().IsAvailable(key)
}

func (s *Store) IsDateBooked(date string) bool {
	key, ok := dateKey(date)
	if !ok {
		return false
	}
	return s.Derived().IsBooked(key)
}

func (s *Store) IsDateLimited(date string) bool {
	key, ok := dateKey(date)
	if !ok {
		return false
	}
	return s.Derived().IsLimited(key)
}

// Derived returns the view of the current snapshot.
func (s *Store) Derived() Derived {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.derived
}

// Snapshot returns a copy of the current slot snapshot.
func (s *Store) Snapshot() []domain.AvailabilitySlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AvailabilitySlot, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// TimeSlotsForDate returns the slots of one date sorted by time, fetching them on first
// use. Failures are logged and yield nil without being cached.
func (s *Store) TimeSlotsForDate(ctx context.Context, date string) []domain.AvailabilitySlot {
	key, ok := dateKey(date)
	if !ok {
		return nil
	}

	s.mu.Lock()
	if cached, ok := s.timeSlots[key]; ok {
		s.mu.Unlock()
		return cached
	}
	generation := s.generation
	s.mu.Unlock()

	slots, err := s.source.GetAvailableTimeSlots(ctx, key)
	if err != nil {
		s.log.Error("fetch time slots for %s: %v", key, err)
		return nil
	}
	sorted := make([]domain.AvailabilitySlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeSlot < sorted[j].TimeSlot })

	s.mu.Lock()
	// a snapshot or change notification that landed meanwhile makes this result stale
	if s.generation == generation {
		s.timeSlots[key] = sorted
	}
	s.mu.Unlock()
	return sorted
}

// CheckSlotAvailability asks the backend directly. The answer is advisory: the backend
// makes the final decision when the booking is created.
func (s *Store) CheckSlotAvailability(ctx context.Context, date, timeSlot string) bool {
	key, ok := dateKey(date)
	if !ok || timeSlot == "" {
		return false
	}
	available, err := s.source.CheckAvailability(ctx, key, timeSlot)
	if err != nil {
		s.log.Error("check availability %s %s: %v", key, timeSlot, err)
		return false
	}
	return available
}

// HandleChange reacts to a real-time notification: cached time slots are dropped, the
// shared snapshot cache is evicted and the default window is fetched again.
func (s *Store) HandleChange(ctx context.Context, change domain.AvailabilityChange) {
	s.mu.Lock()
	if key, ok := dateKey(change.Date); ok {
		delete(s.timeSlots, key)
	} else {
		s.timeSlots = make(map[string][]domain.AvailabilitySlot)
	}
	s.generation++
	s.mu.Unlock()

	s.log.Debug("availability change %s on %q (date %q)", change.Type, change.Table, change.Date)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("invalidate availability cache: %v", err)
		}
	}
	s.Refresh(ctx)
}

// Run refreshes immediately, then on every tick and change notification until ctx is
// done. A nil or closed changes channel only disables the real-time path.
func (s *Store) Run(ctx context.Context, changes <-chan domain.AvailabilityChange) error {
	s.Refresh(ctx)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Refresh(ctx)
		case change, ok := <-changes:
			if !ok {
				s.log.Warn("availability change channel closed, relying on periodic refresh")
				changes = nil
				continue
			}
			s.HandleChange(ctx, change)
		}
	}
}

func dateKey(date string) (string, bool) {
	if date == "" {
		return "", false
	}
	key, err := domain.NormalizeDate(date)
	if err != nil {
		return "", false
	}
	return key, true
}
