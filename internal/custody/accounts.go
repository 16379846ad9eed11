package custody

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const (
	// StrategyAdminKeyed derives the vault account directly from the admin
	// address.
	StrategyAdminKeyed = "admin"
	// StrategyDerived derives the vault account from a hash of the admin
	// address and a deployment seed, detaching the account code from the
	// admin's own identity.
	StrategyDerived = "derived"
)

// AccountStrategy derives the vault's ledger account code. Both strategies
// yield the same custody semantics; only the key shape differs.
type AccountStrategy interface {
	Name() string
	VaultAccount(admin string) string
}

// NewAccountStrategy resolves a strategy by name.
func NewAccountStrategy(name, seed string) (AccountStrategy, error) {
	switch name {
	case "", StrategyAdminKeyed:
		return AdminKeyed{}, nil
	case StrategyDerived:
		return Derived{Seed: seed}, nil
	default:
		return nil, fmt.Errorf("unknown vault account strategy %q", name)
	}
}

// AdminKeyed keys the vault account on the admin address itself.
type AdminKeyed struct{}

// Name identifies the strategy.
func (AdminKeyed) Name() string { return StrategyAdminKeyed }

// VaultAccount returns the admin-keyed vault account code.
func (AdminKeyed) VaultAccount(admin string) string {
	return "vault:admin:" + admin
}

// Derived keys the vault account on a SHA3-256 digest of admin and seed.
type Derived struct {
	Seed string
}

// Name identifies the strategy.
func (Derived) Name() string { return StrategyDerived }

// VaultAccount returns the hash-derived vault account code.
func (d Derived) VaultAccount(admin string) string {
	digest := sha3.Sum256([]byte(admin + ":" + d.Seed))
	return "vault:" + hex.EncodeToString(digest[:8])
}
