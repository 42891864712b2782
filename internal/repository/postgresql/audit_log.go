package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/database"
)

type auditLogRepository struct {
	db *database.DB
}

// NewAuditLogRepository returns an audit sink backed by the audit_logs table.
func NewAuditLogRepository(db *database.DB) audit.Sink {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Write(ctx context.Context, e audit.Event) error {
	q := GetQuerier(ctx, r.db)

	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return fmt.Errorf("failed to marshal audit changes: %w", err)
	}

	var actorID *string
	if e.Actor.Kind == audit.ActorUser {
		actorID = &e.Actor.UserID
	}

	query := `
		INSERT INTO audit_logs (id, actor_kind, actor_id, action, entity_type, entity_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := q.Exec(ctx, query,
		e.ID, string(e.Actor.Kind), actorID, e.Action, string(e.EntityType), e.EntityID, changes, e.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}
