package domain

import "time"

// Account links a user to one external OAuth provider identity.
// (provider, provider_account_id) is unique across the table.
type Account struct {
	ID                string
	UserID            string
	Provider          string
	ProviderAccountID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
