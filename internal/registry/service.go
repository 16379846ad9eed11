package registry

import (
	"context"
	"fmt"

	"github.com/custodia-pay/custodia/internal/audit"
	"github.com/custodia-pay/custodia/internal/identity"
)

// Service maintains the whitelist and authorizes admin-only mutation.
type Service struct {
	admin identity.Admin
	store Store
	log   audit.Log
}

// NewService builds an access-registry service instance.
func NewService(admin identity.Admin, store Store, log audit.Log) *Service {
	return &Service{admin: admin, store: store, log: log}
}

// AddToWhitelist appends all addresses in input order. The caller must be the
// administrator and the batch is all-or-nothing: one duplicate rejects every
// address. Exactly one audit event covers the whole batch.
func (s *Service) AddToWhitelist(ctx context.Context, caller string, addresses []string) error {
	if err := s.admin.Check(caller); err != nil {
		return err
	}
	if err := validateBatch(addresses); err != nil {
		return err
	}
	if err := s.store.Add(ctx, addresses); err != nil {
		return err
	}
	return s.log.Append(ctx, audit.Event{
		Type:      audit.TypeWhitelistChange,
		Action:    audit.ActionAdded,
		Addresses: addresses,
	})
}

// RemoveFromWhitelist removes all addresses, all-or-nothing: one non-member
// rejects the batch. Listing order of remaining entries is preserved.
func (s *Service) RemoveFromWhitelist(ctx context.Context, caller string, addresses []string) error {
	if err := s.admin.Check(caller); err != nil {
		return err
	}
	if err := validateBatch(addresses); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, addresses); err != nil {
		return err
	}
	return s.log.Append(ctx, audit.Event{
		Type:      audit.TypeWhitelistChange,
		Action:    audit.ActionRemoved,
		Addresses: addresses,
	})
}

// IsWhitelisted reports membership for a single address. Pure read.
func (s *Service) IsWhitelisted(ctx context.Context, address string) (bool, error) {
	return s.store.Contains(ctx, address)
}

// ListWhitelisted returns current membership in insertion order. Pure read.
func (s *Service) ListWhitelisted(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

func validateBatch(addresses []string) error {
	if len(addresses) == 0 {
		return fmt.Errorf("at least one address is required")
	}
	for _, addr := range addresses {
		if err := identity.ValidateAddress(addr); err != nil {
			return err
		}
	}
	return nil
}
