package repository

import (
	"context"
	"time"

	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// Unconfigured is the record store used when the required backend settings
// are absent. Every operation short-circuits with ErrNotConfigured without
// attempting a network call, so the application can still serve its
// "not configured" mode.
type Unconfigured struct{}

// NewUnconfigured returns the stub record store.
func NewUnconfigured() *Unconfigured { return &Unconfigured{} }

func (*Unconfigured) CreateAccount(context.Context, string, string, string) (string, error) {
	return "", errs.ErrNotConfigured
}

func (*Unconfigured) GetAccountByEmail(context.Context, string) (*models.Account, error) {
	return nil, errs.ErrNotConfigured
}

func (*Unconfigured) GetProfile(context.Context, string) (*models.Profile, error) {
	return nil, errs.ErrNotConfigured
}

func (*Unconfigured) UpdateProfile(context.Context, string, models.ProfileUpdate) (*models.Profile, error) {
	return nil, errs.ErrNotConfigured
}

func (*Unconfigured) UpdateProfileSubscription(context.Context, string, models.Tier, models.State, *time.Time) error {
	return errs.ErrNotConfigured
}

func (*Unconfigured) InsertSubscription(context.Context, models.SubscriptionRecord) error {
	return errs.ErrNotConfigured
}

func (*Unconfigured) CancelActiveSubscription(context.Context, string) (int, error) {
	return 0, errs.ErrNotConfigured
}

func (*Unconfigured) FindActiveSubscription(context.Context, string) (*models.SubscriptionRecord, error) {
	return nil, errs.ErrNotConfigured
}

func (*Unconfigured) ListSubscriptionHistory(context.Context, string) ([]*models.SubscriptionRecord, error) {
	return nil, errs.ErrNotConfigured
}
