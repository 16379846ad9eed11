package audit

import "time"

const (
	// TypeWhitelistChange records a batch addition or removal of addresses.
	TypeWhitelistChange = "whitelist_change"
	// TypeDepositRecorded records a successful deposit into the vault.
	TypeDepositRecorded = "deposit_recorded"

	// ActionAdded marks addresses joining the whitelist.
	ActionAdded = "added"
	// ActionRemoved marks addresses leaving the whitelist.
	ActionRemoved = "removed"
)

// Event is an immutable record of one successful state change. A batched
// whitelist change of N addresses yields exactly one event covering all N.
type Event struct {
	ID        string
	Type      string
	Action    string
	Addresses []string
	Depositor string
	Amount    int64
	At        time.Time
}
