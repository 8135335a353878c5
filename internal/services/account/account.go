// Package services holds the business logic for accounts: registration,
// authentication, profile reads and updates.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agroclima/agroclima-pro/internal/cache"
	"github.com/agroclima/agroclima-pro/internal/entitlement"
	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/lib/jwt"
	"github.com/agroclima/agroclima-pro/internal/lib/password"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
	"github.com/agroclima/agroclima-pro/internal/metrics"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// AccountRepository describes the record-store contract for accounts and
// profiles.
type AccountRepository interface {
	// CreateAccount inserts credentials and profile together, exactly once.
	CreateAccount(ctx context.Context, email, passwordHash, fullName string) (string, error)
	// GetAccountByEmail returns the credentials record for a login email.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// GetProfile returns the profile for an account id.
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
	// UpdateProfile merges fields and stamps updated_at.
	UpdateProfile(ctx context.Context, userUID string, fields models.ProfileUpdate) (*models.Profile, error)
}

// Cache describes the profile cache the service reads through.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// AccountService implements registration, login and profile management.
type AccountService struct {
	repo     AccountRepository
	cache    Cache
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAccountService builds an AccountService.
func NewAccountService(repo AccountRepository, cache Cache, jwtMaker jwt.Maker, log *slog.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		cache:    cache,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register creates the account and its profile. New accounts start on the
// free tier.
func (s *AccountService) Register(ctx context.Context, email, rawPassword, fullName string) (string, error) {
	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return "", err
	}
	uid, err := s.repo.CreateAccount(ctx, email, hashed, fullName)
	if err != nil {
		return "", err
	}
	s.log.Info("registered new account", slog.String("user_uid", uid))
	return uid, nil
}

// Login verifies the credentials and returns a session token together with
// the profile. A missing account and a wrong password are indistinguishable
// to the caller.
func (s *AccountService) Login(ctx context.Context, email, rawPassword string) (string, *models.Profile, error) {
	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return "", nil, errs.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}
	if err := password.Compare(account.PasswordHash, rawPassword); err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, errs.ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(account.ID, account.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	profile, err := s.GetProfile(ctx, account.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return token, profile, nil
}

// GetProfile returns the profile, serving it from cache when possible.
func (s *AccountService) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	cacheKey := cache.ProfileKey(userUID)

	var cached models.Profile
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, profile, cache.ProfileTTL); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
	}
	return profile, nil
}

// UpdateProfile merges the user-editable fields, stamps updated_at and
// refreshes the cache before returning.
func (s *AccountService) UpdateProfile(ctx context.Context, userUID string, fields models.ProfileUpdate) (*models.Profile, error) {
	cacheKey := cache.ProfileKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("key", cacheKey), sl.Err(err))
	}

	profile, err := s.repo.UpdateProfile(ctx, userUID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, profile, cache.ProfileTTL); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
	}
	s.log.Info("updated profile", slog.String("user_uid", userUID))
	return profile, nil
}

// HasPremiumAccess fetches the profile and re-runs the entitlement
// evaluation against the current time. The result is never cached: premium
// access can lapse without any write occurring.
func (s *AccountService) HasPremiumAccess(ctx context.Context, userUID string) (bool, error) {
	profile, err := s.GetProfile(ctx, userUID)
	if err != nil {
		return false, err
	}
	ok := entitlement.HasPremiumAccess(profile, time.Now())
	metrics.EntitlementChecksTotal.WithLabelValues(fmt.Sprintf("%t", ok)).Inc()
	return ok, nil
}

// EndSession drops the cached profile for the account. Session tokens are
// stateless, so there is nothing else to revoke server-side.
func (s *AccountService) EndSession(_ context.Context, userUID string) error {
	cacheKey := cache.ProfileKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to drop cached profile on sign-out", slog.String("key", cacheKey), sl.Err(err))
		return err
	}
	return nil
}
