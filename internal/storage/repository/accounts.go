package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agroclima/agroclima-pro/internal/entitlement"
	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// CreateAccount inserts the credentials row and the profile row in one
// transaction, so a profile exists exactly when its account does. New
// profiles start on the free tier with an active state and no expiry.
func (s *Storage) CreateAccount(ctx context.Context, email, passwordHash, fullName string) (string, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	email = strings.ToLower(email)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", mapError(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID string
	query := `INSERT INTO accounts (email, password_hash)
			  VALUES ($1, $2)
			  RETURNING id;`
	if err := tx.QueryRowContext(ctx, query, email, passwordHash).Scan(&newID); err != nil {
		return "", mapError(op, err)
	}

	query = `INSERT INTO profiles (id, email, full_name, subscription_tier, subscription_state)
			 VALUES ($1, $2, $3, $4, $5);`
	if _, err := tx.ExecContext(ctx, query, newID, email, fullName,
		models.TierFree, models.StateActive); err != nil {
		return "", mapError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", mapError(op, err)
	}
	return newID, nil
}

// GetAccountByEmail returns the credentials record for a login email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, created_at
			  FROM accounts
			  WHERE email = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, strings.ToLower(email))
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return a, nil
}

// profileColumns is the select list every profile scan uses.
const profileColumns = `id, email, full_name, location, subscription_tier,
			      subscription_state, subscription_expires_at, created_at, updated_at`

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var fullName, location sql.NullString
	var rawTier, rawState string
	var expiresAt sql.NullTime

	if err := row.Scan(&p.ID, &p.Email, &fullName, &location, &rawTier,
		&rawState, &expiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	p.FullName = fullName.String
	p.Location = location.String
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	// legacy rows carried a single status column; fold both shapes here
	p.Tier, p.State = entitlement.Normalize(rawTier, rawState)
	return p, nil
}

// GetProfile returns the profile for an account id.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + `
			  FROM profiles
			  WHERE id = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return p, nil
}

// UpdateProfile merges the provided fields into the profile and stamps
// updated_at. Returns the fresh profile.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, fields models.ProfileUpdate) (*models.Profile, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET full_name = COALESCE($1, full_name),
			      location = COALESCE($2, location),
			      updated_at = now()
			  WHERE id = $3
			  RETURNING ` + profileColumns
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, fields.FullName, fields.Location, userUID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return p, nil
}

// UpdateProfileSubscription rewrites the denormalized subscription cache on
// the profile. It is called by the ledger right after a subscription event
// and must be durable before that call returns.
func (s *Storage) UpdateProfileSubscription(ctx context.Context, userUID string, tier models.Tier, state models.State, expiresAt *time.Time) error {
	const op = "storage.UpdateProfileSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET subscription_tier = $1,
			      subscription_state = $2,
			      subscription_expires_at = $3,
			      updated_at = now()
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, tier, state, expiresAt, userUID)
	if err != nil {
		return mapError(op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}
