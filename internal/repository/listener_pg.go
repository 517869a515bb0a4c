package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wesleysambacht/booking/internal/domain"
)

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// ChangeListener turns Postgres NOTIFY payloads on one channel into availability changes.
type ChangeListener struct {
	db      *pgxpool.Pool
	channel string
	log     Logger
}

func NewChangeListener(db *pgxpool.Pool, channel string, log Logger) *ChangeListener {
	return &ChangeListener{db: db, channel: channel, log: log}
}

// Listen holds a dedicated connection until ctx is done, then closes the returned channel.
func (l *ChangeListener) Listen(ctx context.Context) (<-chan domain.AvailabilityChange, error) {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, err
	}
	l.log.Info("listening for availability changes on %q", l.channel)

	out := make(chan domain.AvailabilityChange)
	go func() {
		defer close(out)
		defer conn.Release()

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					l.log.Warn("change listener stopped: %v", err)
				}
				return
			}

			change, ok := decodeChange(n.Payload)
			if !ok {
				l.log.Warn("ignoring malformed change payload %q", n.Payload)
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// decodeChange accepts an empty payload as a change of unknown scope.
func decodeChange(payload string) (domain.AvailabilityChange, bool) {
	change := domain.AvailabilityChange{Table: slotsTable, Type: domain.ChangeUpdate}
	if payload == "" {
		return change, true
	}
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return domain.AvailabilityChange{}, false
	}
	return change, true
}
