package account

import "time"

// Account is one contest entrant bound to a single external-game identity.
// The contest token is opaque, generated once at registration and never
// reissued.
type Account struct {
	ID          int64
	APIKey      string
	AccountName string
	Token       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
