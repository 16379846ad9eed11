package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds occurs when the payer account lacks available balance
	// to cover a requested withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount indicates a negative amount. Zero-value movements are
	// accepted and move nothing.
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrUnknownFunds indicates a deposit of a funds handle that was never
	// withdrawn or has already been deposited.
	ErrUnknownFunds = errors.New("unknown funds handle")
)

// InFlightAccountCode is the ledger account that parks withdrawn amounts
// between the withdraw and deposit legs of a movement.
const InFlightAccountCode = "suspense:inflight"

// Funds is a handle to an amount debited from a payer and not yet credited
// anywhere. It can be deposited exactly once.
type Funds struct {
	ID     string
	Amount int64
}

// Ledger defines the fungible-asset primitive the custody core moves value
// through. It is the sole authority on account balances; the core never
// duplicates its accounting.
type Ledger interface {
	EnsureAccount(ctx context.Context, code string) error
	Balance(ctx context.Context, code string) (int64, error)
	Withdraw(ctx context.Context, payer string, amount int64) (Funds, error)
	Deposit(ctx context.Context, payee string, funds Funds) error
}
