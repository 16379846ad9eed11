package vault

import (
	"context"

	"github.com/custodia-pay/custodia/internal/audit"
	"github.com/custodia-pay/custodia/internal/identity"
	"github.com/custodia-pay/custodia/internal/ledger"
	"github.com/custodia-pay/custodia/internal/registry"
)

// Membership answers whether an address may deposit into the vault. Satisfied
// by the access-registry service.
type Membership interface {
	IsWhitelisted(ctx context.Context, address string) (bool, error)
}

// Service holds the pooled custody balance and gates money movement. The
// balance is the external ledger's balance for the vault account; the service
// never tracks a shadow copy.
type Service struct {
	admin   identity.Admin
	account string
	ledger  ledger.Ledger
	members Membership
	log     audit.Log
}

// NewService builds a custody-vault service bound to one vault ledger account.
func NewService(admin identity.Admin, account string, ledgerBackend ledger.Ledger, members Membership, log audit.Log) *Service {
	return &Service{admin: admin, account: account, ledger: ledgerBackend, members: members, log: log}
}

// Account returns the vault's ledger account code.
func (s *Service) Account() string {
	return s.account
}

// Deposit moves amount from the caller's ledger account into the vault. The
// caller must be whitelisted and externally funded; ledger failures surface
// unswallowed. A zero amount is accepted and still produces an audit event.
func (s *Service) Deposit(ctx context.Context, caller string, amount int64) (int64, error) {
	ok, err := s.members.IsWhitelisted(ctx, caller)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, registry.ErrNotWhitelisted
	}

	funds, err := s.ledger.Withdraw(ctx, caller, amount)
	if err != nil {
		return 0, err
	}
	if err := s.ledger.Deposit(ctx, s.account, funds); err != nil {
		return 0, err
	}

	if err := s.log.Append(ctx, audit.Event{
		Type:      audit.TypeDepositRecorded,
		Depositor: caller,
		Amount:    amount,
	}); err != nil {
		return 0, err
	}

	return s.ledger.Balance(ctx, s.account)
}

// TransferOut moves amount from the vault to the destination account. Admin
// only. No audit event is emitted for transfers out; see the service tests,
// which pin the asymmetry with deposits.
func (s *Service) TransferOut(ctx context.Context, caller, to string, amount int64) (int64, error) {
	if err := s.admin.Check(caller); err != nil {
		return 0, err
	}
	if err := identity.ValidateAddress(to); err != nil {
		return 0, err
	}

	if err := s.ledger.EnsureAccount(ctx, to); err != nil {
		return 0, err
	}

	funds, err := s.ledger.Withdraw(ctx, s.account, amount)
	if err != nil {
		return 0, err
	}
	if err := s.ledger.Deposit(ctx, to, funds); err != nil {
		return 0, err
	}

	return s.ledger.Balance(ctx, s.account)
}

// Balance returns the pooled custody balance. Pure read.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	return s.ledger.Balance(ctx, s.account)
}
