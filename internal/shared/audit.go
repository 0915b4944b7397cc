package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActionRecord represents one row in action_history.
type ActionRecord struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditLogger writes records into action_history.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the history entry.
func (l *AuditLogger) Record(ctx context.Context, rec ActionRecord) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if rec.Action == "" || rec.Entity == "" || rec.EntityID == "" {
		return errors.New("action record requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(rec.Meta)
	if err != nil {
		return err
	}
	var at any
	if !rec.At.IsZero() {
		at = rec.At
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO action_history (actor_id, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`, rec.ActorID, rec.Action, rec.Entity, rec.EntityID, metaJSON, at)
	return err
}
