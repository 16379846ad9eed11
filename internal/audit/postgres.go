package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLog persists audit events in PostgreSQL for external indexing.
type PostgresLog struct {
	db *pgxpool.Pool
}

// NewPostgresLog constructs a Postgres-backed audit sink.
func NewPostgresLog(db *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{db: db}
}

// Append inserts the event. Events are append-only; there is no update or
// delete path anywhere in the schema.
func (l *PostgresLog) Append(ctx context.Context, event Event) error {
	event = Stamp(event)
	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(ctx, `INSERT INTO audit_events (id, event_type, action, addresses, depositor, amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		eventID, event.Type, event.Action, event.Addresses, event.Depositor, event.Amount, event.At)
	return err
}
