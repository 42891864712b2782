package audit

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type recorder struct {
	sinks []audit.Sink
	clock clockwork.Clock
}

// NewRecorder fans every event out to sinks. A failing sink is logged and
// does not stop the others.
func NewRecorder(clock clockwork.Clock, sinks ...audit.Sink) audit.Recorder {
	return &recorder{sinks: sinks, clock: clock}
}

func (r *recorder) Record(ctx context.Context, actor audit.Actor, action string, entityType audit.EntityType, entityID string, changes audit.Changes) {
	event := audit.Event{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		Timestamp:  r.clock.Now(),
	}

	// The change is already committed; a cancelled request must not drop it.
	ctx = context.WithoutCancel(ctx)

	for _, sink := range r.sinks {
		if err := sink.Write(ctx, event); err != nil {
			slog.Error("failed to record audit event",
				"action", action,
				"entity_type", entityType,
				"entity_id", entityID,
				"actor", actor.String(),
				"error", err,
			)
		}
	}
}
