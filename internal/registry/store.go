package registry

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyWhitelisted occurs when a batch add contains an address that is
	// already a member. The whole batch is rejected.
	ErrAlreadyWhitelisted = errors.New("address already whitelisted")

	// ErrNotWhitelisted occurs when a batch removal names a non-member, or when
	// a depositor is not a member. For batches the whole batch is rejected.
	ErrNotWhitelisted = errors.New("address not whitelisted")
)

// Store persists the whitelist membership. Batch mutations are all-or-nothing:
// the first invalid address aborts the call with no partial application.
type Store interface {
	Add(ctx context.Context, addresses []string) error
	Remove(ctx context.Context, addresses []string) error
	Contains(ctx context.Context, address string) (bool, error)
	List(ctx context.Context) ([]string, error)
}
