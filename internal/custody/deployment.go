package custody

import "time"

// Deployment is the singleton record created at bootstrap. It pins the
// administrator identity and the derived vault ledger account for the
// lifetime of the deployment.
type Deployment struct {
	ID           string
	Admin        string
	VaultAccount string
	Strategy     string
	CreatedAt    time.Time
}
