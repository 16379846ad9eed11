package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type inMemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]int64
	inflight map[string]int64
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and local development without Postgres.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		balances: make(map[string]int64),
		inflight: make(map[string]int64),
	}
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.balances[code]; !exists {
		l.balances[code] = 0
	}
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, code string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, exists := l.balances[code]
	if !exists {
		return 0, ErrInsufficientFunds
	}
	return balance, nil
}

func (l *inMemoryLedger) Withdraw(_ context.Context, payer string, amount int64) (Funds, error) {
	if amount < 0 {
		return Funds{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[payer]
	if !ok {
		return Funds{}, ErrInsufficientFunds
	}
	if balance < amount {
		return Funds{}, ErrInsufficientFunds
	}

	l.balances[payer] = balance - amount
	l.balances[InFlightAccountCode] += amount

	funds := Funds{ID: uuid.NewString(), Amount: amount}
	l.inflight[funds.ID] = amount
	return funds, nil
}

func (l *inMemoryLedger) Deposit(_ context.Context, payee string, funds Funds) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount, ok := l.inflight[funds.ID]
	if !ok || amount != funds.Amount {
		return ErrUnknownFunds
	}
	if _, ok := l.balances[payee]; !ok {
		l.balances[payee] = 0
	}

	delete(l.inflight, funds.ID)
	l.balances[InFlightAccountCode] -= amount
	l.balances[payee] += amount
	return nil
}
