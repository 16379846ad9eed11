package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists ledger entries in PostgreSQL ensuring double-entry
// balance. Each Withdraw/Deposit runs inside one transaction so the host's
// atomic-call guarantee holds per operation.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureAccount guarantees an account exists for the provided code.
func (l *PostgresLedger) EnsureAccount(ctx context.Context, code string) error {
	_, err := l.db.Exec(ctx, `INSERT INTO accounts (id, code) VALUES ($1, $2)
        ON CONFLICT (code) DO NOTHING`, uuid.New(), code)
	return err
}

// Balance returns the summed balance for the specified account code.
func (l *PostgresLedger) Balance(ctx context.Context, code string) (int64, error) {
	const query = `
        SELECT COALESCE(SUM(e.amount), 0)
        FROM entries e
        INNER JOIN accounts a ON a.id = e.account_id
        WHERE a.code = $1`
	var balance int64
	if err := l.db.QueryRow(ctx, query, code).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("account %s not found", code)
		}
		return 0, err
	}
	return balance, nil
}

// Withdraw debits the payer and parks the amount in the in-flight suspense
// account, returning a funds handle that can be deposited exactly once.
func (l *PostgresLedger) Withdraw(ctx context.Context, payer string, amount int64) (Funds, error) {
	if amount < 0 {
		return Funds{}, ErrInvalidAmount
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Funds{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	payerAccountID, err := accountIDForCode(ctx, tx, payer)
	if err != nil {
		return Funds{}, err
	}
	suspenseAccountID, err := accountIDForCode(ctx, tx, InFlightAccountCode)
	if err != nil {
		return Funds{}, err
	}

	payerBalance, err := balanceForAccount(ctx, tx, payerAccountID)
	if err != nil {
		return Funds{}, err
	}
	if payerBalance < amount {
		return Funds{}, ErrInsufficientFunds
	}

	fundsID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO transactions (id, kind, status) VALUES ($1, $2, $3)`,
		fundsID, "withdraw", "in_flight"); err != nil {
		return Funds{}, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO entries (id, transaction_id, account_id, amount) VALUES ($1, $2, $3, $4)`,
		uuid.New(), fundsID, payerAccountID, -amount); err != nil {
		return Funds{}, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO entries (id, transaction_id, account_id, amount) VALUES ($1, $2, $3, $4)`,
		uuid.New(), fundsID, suspenseAccountID, amount); err != nil {
		return Funds{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Funds{}, err
	}

	return Funds{ID: fundsID.String(), Amount: amount}, nil
}

// Deposit drains a previously withdrawn amount from suspense into the payee.
func (l *PostgresLedger) Deposit(ctx context.Context, payee string, funds Funds) error {
	fundsID, err := uuid.Parse(funds.ID)
	if err != nil {
		return ErrUnknownFunds
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const claimQuery = `UPDATE transactions SET status = 'settled'
        WHERE id = $1 AND kind = 'withdraw' AND status = 'in_flight'`
	tag, err := tx.Exec(ctx, claimQuery, fundsID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownFunds
	}

	payeeAccountID, err := accountIDForCode(ctx, tx, payee)
	if err != nil {
		return err
	}
	suspenseAccountID, err := accountIDForCode(ctx, tx, InFlightAccountCode)
	if err != nil {
		return err
	}

	settleID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO transactions (id, kind, status) VALUES ($1, $2, $3)`,
		settleID, "deposit", "settled"); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO entries (id, transaction_id, account_id, amount) VALUES ($1, $2, $3, $4)`,
		uuid.New(), settleID, suspenseAccountID, -funds.Amount); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO entries (id, transaction_id, account_id, amount) VALUES ($1, $2, $3, $4)`,
		uuid.New(), settleID, payeeAccountID, funds.Amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func accountIDForCode(ctx context.Context, tx pgx.Tx, code string) (uuid.UUID, error) {
	const query = `SELECT id FROM accounts WHERE code = $1 FOR UPDATE`
	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, code).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("account %s not found", code)
		}
		return uuid.Nil, err
	}
	return id, nil
}

func balanceForAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (int64, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM entries WHERE account_id = $1`
	var balance int64
	if err := tx.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}
