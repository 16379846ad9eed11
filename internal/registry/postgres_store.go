package registry

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists whitelist membership in PostgreSQL. Each batch runs
// in one transaction so a mid-batch failure rolls back every row.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a whitelist store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add appends all addresses in input order, failing the whole batch on the
// first address that is already a member.
func (s *PostgresStore) Add(ctx context.Context, addresses []string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var position int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(position), 0) FROM whitelist`).Scan(&position); err != nil {
		return err
	}

	for _, addr := range addresses {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM whitelist WHERE address = $1)`, addr).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrAlreadyWhitelisted
		}
		position++
		if _, err := tx.Exec(ctx, `INSERT INTO whitelist (address, position) VALUES ($1, $2)`, addr, position); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Remove deletes all addresses, failing the whole batch on the first address
// that is not a member. Positions of remaining rows are untouched, so listing
// order is preserved across removals.
func (s *PostgresStore) Remove(ctx context.Context, addresses []string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, addr := range addresses {
		tag, err := tx.Exec(ctx, `DELETE FROM whitelist WHERE address = $1`, addr)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotWhitelisted
		}
	}

	return tx.Commit(ctx)
}

// Contains reports membership for a single address.
func (s *PostgresStore) Contains(ctx context.Context, address string) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM whitelist WHERE address = $1)`, address).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns current membership in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT address FROM whitelist ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
