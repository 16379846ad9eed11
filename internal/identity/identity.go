package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAdmin indicates the caller is not the deployment administrator.
var ErrNotAdmin = errors.New("caller is not the administrator")

// Admin is the single identity allowed to manage the whitelist and move
// custody funds. It is fixed at deployment time and never changes.
type Admin string

// Check compares the caller against the administrator identity. It runs
// before any state is touched so a rejected call has no partial effects.
func (a Admin) Check(caller string) error {
	if caller == "" || caller != string(a) {
		return ErrNotAdmin
	}
	return nil
}

// Address returns the administrator address.
func (a Admin) Address() string {
	return string(a)
}

// ValidateAddress rejects empty or whitespace-padded account addresses.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address must not be empty")
	}
	if strings.TrimSpace(addr) != addr {
		return fmt.Errorf("address %q must not contain surrounding whitespace", addr)
	}
	return nil
}
