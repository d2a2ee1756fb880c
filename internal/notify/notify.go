// AngelaMos | 2026
// notify.go

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/carterperez-dev/homemgmt/internal/metrics"
)

const (
	KindRoom    = "room"
	KindEntity  = "entity"
	KindService = "service"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes a committed change to a room, entity or service.
type Event struct {
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	ID         int64     `json:"id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(kind, action string, id int64, name string) Event {
	return Event{
		Kind:       kind,
		Action:     action,
		ID:         id,
		Name:       name,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emit publishes best effort. A failed publish is logged and counted but
// never reaches the caller.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, event Event) {
	if p == nil {
		return
	}

	err := p.Publish(ctx, event)
	metrics.RecordEvent(event.Kind, err)
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "change event not published",
			"kind", event.Kind,
			"action", event.Action,
			"id", event.ID,
			"error", err,
		)
	}
}

type noop struct{}

// Noop returns a Publisher that discards every event.
func Noop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, Event) error { return nil }

func (noop) Close() error { return nil }
