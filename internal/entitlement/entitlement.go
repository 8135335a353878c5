// Package entitlement computes the current access tier from a profile
// snapshot. The functions are pure: callers pass the clock in, nothing is
// cached between calls, since premium access can lapse without any write
// occurring.
package entitlement

import (
	"time"

	"github.com/agroclima/agroclima-pro/internal/models"
)

// HasPremiumAccess reports whether the profile is entitled to premium at
// the given instant. The tier field is checked first: a cancelled profile
// is free even while its old expiry timestamp is still in the future. A nil
// expiry on a premium profile is a non-expiring grant.
func HasPremiumAccess(p *models.Profile, now time.Time) bool {
	if p == nil {
		return false
	}
	if p.Tier != models.TierPremium {
		return false
	}
	if p.ExpiresAt == nil {
		return true
	}
	return p.ExpiresAt.After(now)
}

// Normalize folds the divergent legacy shapes of the subscription fields
// into the canonical tier/state pair. Older rows carried a single
// subscription_status column holding either a tier ("free"/"premium") or a
// lifecycle state; adapters must pass both raw columns through here before
// a Profile leaves the storage layer.
func Normalize(rawTier, rawState string) (models.Tier, models.State) {
	tier := models.TierFree
	switch rawTier {
	case string(models.TierPremium):
		tier = models.TierPremium
	case string(models.TierFree), "":
		// single-column variant put the tier into the status field
		if rawState == string(models.TierPremium) {
			tier = models.TierPremium
		}
	}

	state := models.StateActive
	switch rawState {
	case string(models.StateCancelled), "canceled":
		state = models.StateCancelled
	case string(models.StateInactive):
		state = models.StateInactive
	case string(models.StateActive), string(models.TierFree), string(models.TierPremium), "":
		state = models.StateActive
	}

	return tier, state
}
