package models

import "time"

// Account is the credentials record behind a profile. A profile exists if
// and only if its account does; both rows are created together.
type Account struct {
	ID           string    // assigned by the store at creation
	Email        string    // unique, stored lowercased
	PasswordHash string    // bcrypt hash, never leaves the storage layer
	CreatedAt    time.Time
}
