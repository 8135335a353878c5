// Package services holds the business logic of the subscription ledger:
// creating and cancelling billing periods and keeping the profile's
// denormalized subscription fields in sync with them.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agroclima/agroclima-pro/internal/cache"
	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
	"github.com/agroclima/agroclima-pro/internal/metrics"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// SubscriptionRepository describes the record-store contract for the
// ledger and the profile sync step.
type SubscriptionRepository interface {
	// InsertSubscription appends a record to the ledger.
	InsertSubscription(ctx context.Context, rec models.SubscriptionRecord) error
	// CancelActiveSubscription flips the active record, returning how many
	// records were flipped (0 or 1).
	CancelActiveSubscription(ctx context.Context, userID string) (int, error)
	// FindActiveSubscription returns the active record or ErrNotFound.
	FindActiveSubscription(ctx context.Context, userID string) (*models.SubscriptionRecord, error)
	// ListSubscriptionHistory returns all records, newest first.
	ListSubscriptionHistory(ctx context.Context, userID string) ([]*models.SubscriptionRecord, error)
	// UpdateProfileSubscription rewrites the profile's subscription cache.
	UpdateProfileSubscription(ctx context.Context, userUID string, tier models.Tier, state models.State, expiresAt *time.Time) error
}

// Cache describes the profile cache invalidated on subscription events.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SubscriptionService implements subscription creation, cancellation and
// history.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time // injectable clock
}

// NewSubscriptionService builds a SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Create opens a one-month premium period starting now. Any existing
// active record is superseded first so at most one record per user stays
// active. After the ledger insert the profile's subscription fields are
// rewritten; when that second write fails the ledger record already exists
// and the error is surfaced as a PartialFailure rather than a clean one.
func (s *SubscriptionService) Create(ctx context.Context, userID, paymentMethod string) (*models.SubscriptionRecord, error) {
	startDate := s.now().UTC()
	endDate := startDate.AddDate(0, 1, 0)

	rec := models.SubscriptionRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        models.SubscriptionActive,
		Plan:          models.TierPremium,
		Price:         models.PremiumMonthlyPrice,
		PaymentMethod: paymentMethod,
		StartDate:     startDate,
		EndDate:       endDate,
	}

	superseded, err := s.repo.CancelActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if superseded > 0 {
		s.log.Info("superseded active subscription", slog.String("user_id", userID))
	}

	if err := s.repo.InsertSubscription(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfileSubscription(ctx, userID,
		models.TierPremium, models.StateActive, &endDate); err != nil {
		s.invalidateProfile(userID)
		metrics.SubscriptionEventsTotal.WithLabelValues("partial_failure").Inc()
		return nil, &errs.PartialFailure{RecordID: rec.ID, Step: "profile update", Err: err}
	}

	s.invalidateProfile(userID)
	metrics.SubscriptionEventsTotal.WithLabelValues("created").Inc()
	s.log.Info("created subscription",
		slog.String("user_id", userID), slog.String("record_id", rec.ID))
	return &rec, nil
}

// Cancel flips the active record to canceled and the profile back to free.
// A user without an active record is a successful no-op that still leaves
// the profile on the free tier.
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) error {
	flipped, err := s.repo.CancelActiveSubscription(ctx, userID)
	if err != nil {
		return err
	}

	state := models.StateActive
	if flipped > 0 {
		state = models.StateCancelled
	}
	if err := s.repo.UpdateProfileSubscription(ctx, userID,
		models.TierFree, state, nil); err != nil {
		if flipped > 0 {
			s.invalidateProfile(userID)
			metrics.SubscriptionEventsTotal.WithLabelValues("partial_failure").Inc()
			return &errs.PartialFailure{Step: "profile update", Err: err}
		}
		return err
	}

	s.invalidateProfile(userID)
	if flipped > 0 {
		metrics.SubscriptionEventsTotal.WithLabelValues("canceled").Inc()
		s.log.Info("canceled subscription", slog.String("user_id", userID))
	}
	return nil
}

// History returns the user's billing periods, newest first.
func (s *SubscriptionService) History(ctx context.Context, userID string) ([]*models.SubscriptionRecord, error) {
	return s.repo.ListSubscriptionHistory(ctx, userID)
}

// invalidateProfile drops the cached profile so the next entitlement check
// fetches a fresh snapshot. Called before the subscription call returns to
// keep the ordering guarantee.
func (s *SubscriptionService) invalidateProfile(userID string) {
	cacheKey := cache.ProfileKey(userID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
