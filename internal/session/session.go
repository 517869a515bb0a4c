package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wesleysambacht/booking/internal/service/bookingflow"
)

var ErrNotFound = errors.New("session not found")

// Context identifies one visitor page load.
type Context struct {
	ID        uuid.UUID `json:"id"`
	StartedAt time.Time `json:"started_at"`
}

func NewContext(now time.Time) Context {
	return Context{ID: uuid.New(), StartedAt: now}
}

// Session pairs a visitor context with the machine that holds its draft.
type Session struct {
	Context Context
	Machine *bookingflow.Machine

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
}

// Registry owns the live sessions. All machines publish to the same publisher.
type Registry struct {
	publisher bookingflow.Publisher
	log       Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(publisher bookingflow.Publisher, log Logger, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		publisher: publisher,
		log:       log,
		now:       now,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Open starts a session with a fresh draft.
func (r *Registry) Open() *Session {
	now := r.now()
	ctx := NewContext(now)
	s := &Session{
		Context:  ctx,
		Machine:  bookingflow.NewMachine(ctx.ID.String(), r.publisher, r.now),
		lastSeen: now,
	}

	r.mu.Lock()
	r.sessions[ctx.ID] = s
	r.mu.Unlock()

	r.log.Debug("session %s opened", ctx.ID)
	return s
}

// Get returns the session and marks it as active.
func (r *Registry) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	s, ok := r.sessions[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(r.now())
	return s, nil
}

func (r *Registry) Close(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	r.mu.Lock()
	_, ok := r.sessions[key]
	delete(r.sessions, key)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	r.log.Debug("session %s closed", key)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than idleTTL and returns how many went.
func (r *Registry) Sweep(idleTTL time.Duration) int {
	cutoff := r.now().Add(-idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idleTTL time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idleTTL); n > 0 {
				r.log.Info("swept %d idle sessions", n)
			}
		}
	}
}
