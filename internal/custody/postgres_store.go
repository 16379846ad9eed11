package custody

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the deployment record in PostgreSQL. The table has a
// single-row constraint so a second bootstrap fails.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a deployment store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the deployment record, failing when one already exists.
func (s *PostgresStore) Create(ctx context.Context, deployment Deployment) error {
	deploymentID, err := uuid.Parse(deployment.ID)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `INSERT INTO deployments (id, singleton, admin_address, vault_account, strategy, created_at)
        VALUES ($1, TRUE, $2, $3, $4, $5)
        ON CONFLICT (singleton) DO NOTHING`,
		deploymentID, deployment.Admin, deployment.VaultAccount, deployment.Strategy, deployment.CreatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyInitialized
	}
	return nil
}

// Get fetches the deployment record.
func (s *PostgresStore) Get(ctx context.Context) (Deployment, error) {
	row := s.db.QueryRow(ctx, `SELECT id, admin_address, vault_account, strategy, created_at FROM deployments WHERE singleton`)
	var d Deployment
	var id uuid.UUID
	var createdAt time.Time
	if err := row.Scan(&id, &d.Admin, &d.VaultAccount, &d.Strategy, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deployment{}, ErrNotInitialized
		}
		return Deployment{}, err
	}
	d.ID = id.String()
	d.CreatedAt = createdAt.UTC()
	return d, nil
}
