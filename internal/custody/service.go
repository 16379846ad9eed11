package custody

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-pay/custodia/internal/audit"
	"github.com/custodia-pay/custodia/internal/identity"
	"github.com/custodia-pay/custodia/internal/ledger"
	"github.com/custodia-pay/custodia/internal/registry"
	"github.com/custodia-pay/custodia/internal/vault"
)

// Service is the deployment facade: it owns the bootstrap lifecycle and
// serializes logical operations against the shared registry and vault state,
// standing in for the atomic-call guarantee of a sequential host.
type Service struct {
	admin    identity.Admin
	strategy AccountStrategy
	store    Store
	ledger   ledger.Ledger
	registry *registry.Service
	log      audit.Log

	mu    sync.Mutex
	vault *vault.Service

	// opMu serializes mutating operations so each observes a fully committed
	// prior state, as a sequential single-writer host would guarantee.
	opMu sync.Mutex
}

// NewService wires the custody facade. Call Resume afterwards to pick up a
// deployment bootstrapped by an earlier process.
func NewService(admin identity.Admin, strategy AccountStrategy, store Store, ledgerBackend ledger.Ledger, reg *registry.Service, log audit.Log) *Service {
	return &Service{
		admin:    admin,
		strategy: strategy,
		store:    store,
		ledger:   ledgerBackend,
		registry: reg,
		log:      log,
	}
}

// Resume loads an existing deployment record, if any, and attaches the vault.
// A fresh deployment is not an error; bootstrap simply has not happened yet.
func (s *Service) Resume(ctx context.Context) error {
	deployment, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return nil
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attach(deployment)
	return nil
}

// Bootstrap initializes the registry and vault together, exactly once, under
// admin authority. The vault ledger account is derived by the configured
// strategy and created in the external ledger.
func (s *Service) Bootstrap(ctx context.Context, caller string) (Deployment, error) {
	if err := s.admin.Check(caller); err != nil {
		return Deployment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault != nil {
		return Deployment{}, ErrAlreadyInitialized
	}

	deployment := Deployment{
		ID:           uuid.NewString(),
		Admin:        s.admin.Address(),
		VaultAccount: s.strategy.VaultAccount(s.admin.Address()),
		Strategy:     s.strategy.Name(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Create(ctx, deployment); err != nil {
		return Deployment{}, err
	}
	if err := s.ledger.EnsureAccount(ctx, ledger.InFlightAccountCode); err != nil {
		return Deployment{}, err
	}
	if err := s.ledger.EnsureAccount(ctx, deployment.VaultAccount); err != nil {
		return Deployment{}, err
	}

	s.attach(deployment)
	return deployment, nil
}

func (s *Service) attach(deployment Deployment) {
	s.vault = vault.NewService(s.admin, deployment.VaultAccount, s.ledger, s.registry, s.log)
}

func (s *Service) attached() (*vault.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vault == nil {
		return nil, ErrNotInitialized
	}
	return s.vault, nil
}

// AddToWhitelist authorizes the caller as admin and appends the batch.
func (s *Service) AddToWhitelist(ctx context.Context, caller string, addresses []string) error {
	if _, err := s.attached(); err != nil {
		return err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.registry.AddToWhitelist(ctx, caller, addresses)
}

// RemoveFromWhitelist authorizes the caller as admin and removes the batch.
func (s *Service) RemoveFromWhitelist(ctx context.Context, caller string, addresses []string) error {
	if _, err := s.attached(); err != nil {
		return err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.registry.RemoveFromWhitelist(ctx, caller, addresses)
}

// IsWhitelisted reports membership. Pure read; never requires bootstrap.
func (s *Service) IsWhitelisted(ctx context.Context, address string) (bool, error) {
	return s.registry.IsWhitelisted(ctx, address)
}

// ListWhitelisted returns current membership. Pure read.
func (s *Service) ListWhitelisted(ctx context.Context) ([]string, error) {
	return s.registry.ListWhitelisted(ctx)
}

// Deposit moves the caller's funds into the vault.
func (s *Service) Deposit(ctx context.Context, caller string, amount int64) (int64, error) {
	v, err := s.attached()
	if err != nil {
		return 0, err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return v.Deposit(ctx, caller, amount)
}

// TransferOut moves vault funds to the destination account. Admin only.
func (s *Service) TransferOut(ctx context.Context, caller, to string, amount int64) (int64, error) {
	v, err := s.attached()
	if err != nil {
		return 0, err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return v.TransferOut(ctx, caller, to, amount)
}

// Balance returns the pooled custody balance.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	v, err := s.attached()
	if err != nil {
		return 0, err
	}
	return v.Balance(ctx)
}
