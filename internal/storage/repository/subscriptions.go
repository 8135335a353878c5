package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agroclima/agroclima-pro/internal/models"
)

// ErrActiveSubscriptionExists is returned when an insert hits the partial
// unique index guarding "at most one active record per user".
var ErrActiveSubscriptionExists = errors.New("user already has an active subscription")

// InsertSubscription appends a new record to the ledger.
func (s *Storage) InsertSubscription(ctx context.Context, rec models.SubscriptionRecord) error {
	const op = "storage.InsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_id, status, plan, price,
			      payment_method, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Status, rec.Plan, rec.Price,
		rec.PaymentMethod, rec.StartDate, rec.EndDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrActiveSubscriptionExists)
		}
		return mapError(op, err)
	}
	return nil
}

// CancelActiveSubscription flips the user's active record, if any, to
// canceled. Returns the number of records flipped (0 or 1).
func (s *Storage) CancelActiveSubscription(ctx context.Context, userID string) (int, error) {
	const op = "storage.CancelActiveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1
			  WHERE user_id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query,
		models.SubscriptionCanceled, userID, models.SubscriptionActive)
	if err != nil {
		return 0, mapError(op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, mapError(op, err)
	}
	return int(rows), nil
}

// FindActiveSubscription returns the user's active record or ErrNotFound.
func (s *Storage) FindActiveSubscription(ctx context.Context, userID string) (*models.SubscriptionRecord, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, status, plan, price, payment_method,
			      start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_id = $1 AND status = $2`
	row := s.DB.QueryRowContext(ctx, query, userID, models.SubscriptionActive)

	var rec models.SubscriptionRecord
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Status, &rec.Plan, &rec.Price,
		&rec.PaymentMethod, &rec.StartDate, &rec.EndDate, &rec.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return &rec, nil
}

// ListSubscriptionHistory returns the user's records, newest first.
func (s *Storage) ListSubscriptionHistory(ctx context.Context, userID string) ([]*models.SubscriptionRecord, error) {
	const op = "storage.ListSubscriptionHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, status, plan, price, payment_method,
			      start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY start_date DESC, created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionRecord
	for rows.Next() {
		var rec models.SubscriptionRecord
		if err = rows.Scan(&rec.ID, &rec.UserID, &rec.Status, &rec.Plan, &rec.Price,
			&rec.PaymentMethod, &rec.StartDate, &rec.EndDate, &rec.CreatedAt); err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}
