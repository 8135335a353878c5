package models

import "time"

// Subscription record statuses. History is additive: records are never
// deleted and never have their dates extended, a renewal inserts a new row.
const (
	// SubscriptionActive is the single in-force record a user may have.
	SubscriptionActive = "active"
	// SubscriptionCanceled is set when the user cancels; the row is kept.
	SubscriptionCanceled = "canceled"
	// SubscriptionExpired marks records whose period has fully elapsed.
	SubscriptionExpired = "expired"
)

// PremiumMonthlyPrice is the price of one month of premium, in BRL.
const PremiumMonthlyPrice = 14.90

// SubscriptionRecord represents one billing period in the subscriptions
// table. At most one record per user has status = active.
type SubscriptionRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Plan          Tier      `json:"plan"`
	Price         float64   `json:"price"`
	PaymentMethod string    `json:"payment_method,omitempty"` // informational, not validated
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CreatedAt     time.Time `json:"created_at"`
}
