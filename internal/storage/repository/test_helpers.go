package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/agroclima/agroclima-pro/internal/migrations"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// setupTestDatabase starts a disposable PostgreSQL container, applies the
// migrations and returns a ready Storage together with a cleanup func.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
			wait.ForListeningPort(nat.Port("5432/tcp")),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory holds helpers for seeding test data.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory creates a test data factory.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateAccount inserts an account with its profile and returns the uid.
func (f *TestDataFactory) CreateAccount(t *testing.T, email, passwordHash, fullName string) string {
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2) RETURNING id`,
		email, passwordHash).Scan(&uid)
	require.NoError(t, err)

	_, err = f.storage.DB.Exec(`INSERT INTO profiles (id, email, full_name)
		VALUES ($1, $2, $3)`,
		uid, email, fullName)
	require.NoError(t, err)
	return uid
}

// CreateSubscriptionRecord inserts a subscription row and returns its id.
func (f *TestDataFactory) CreateSubscriptionRecord(t *testing.T, userUID, status string,
	startDate, endDate time.Time) string {
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO subscriptions
		(id, user_id, status, plan, price, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userUID, status, models.TierPremium, models.PremiumMonthlyPrice, startDate, endDate)
	require.NoError(t, err)
	return id
}

// SetProfileSubscription rewrites the subscription columns of a profile.
func (f *TestDataFactory) SetProfileSubscription(t *testing.T, userUID string,
	tier models.Tier, state models.State, expiresAt *time.Time) {
	_, err := f.storage.DB.Exec(`UPDATE profiles
		SET subscription_tier = $2, subscription_state = $3, subscription_expires_at = $4
		WHERE id = $1`,
		userUID, tier, state, expiresAt)
	require.NoError(t, err)
}
