// Package models holds the domain structures for user profiles and
// subscription records.
//
// Profile is the durable per-user record the rest of the system reads
// subscription state from. Its subscription fields are a denormalized cache
// of the ledger in the subscriptions table and are kept in sync by the
// subscription service.
package models

import "time"

// Tier is the access tier a profile is entitled to.
type Tier string

// State is the lifecycle state of the profile's current subscription.
type State string

const (
	// TierFree is the default tier every new account starts on.
	TierFree Tier = "free"
	// TierPremium unlocks the paid dashboard sections.
	TierPremium Tier = "premium"

	// StateActive marks a subscription that is currently in force.
	StateActive State = "active"
	// StateInactive marks a subscription that lapsed without being cancelled.
	StateInactive State = "inactive"
	// StateCancelled marks a subscription the user cancelled.
	StateCancelled State = "cancelled"
)

// Profile represents a row of the profiles table.
type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	Location  string     `json:"location,omitempty"`
	Tier      Tier       `json:"subscription_tier"`
	State     State      `json:"subscription_state"`
	ExpiresAt *time.Time `json:"subscription_expires_at,omitempty"` // nil = non-expiring premium grant
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers mean
// "leave unchanged"; the repository always stamps updated_at.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Location *string `json:"location,omitempty"`
}
