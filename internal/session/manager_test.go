package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/models"
)

type backendStub struct {
	mu          sync.Mutex
	registerFn  func(ctx context.Context, email, password, fullName string) (string, error)
	loginFn     func(ctx context.Context, email, password string) (string, *models.Profile, error)
	getFn       func(ctx context.Context, userUID string) (*models.Profile, error)
	endFn       func(ctx context.Context, userUID string) error
	endSessions int
}

func (b *backendStub) Register(ctx context.Context, email, password, fullName string) (string, error) {
	return b.registerFn(ctx, email, password, fullName)
}

func (b *backendStub) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	return b.loginFn(ctx, email, password)
}

func (b *backendStub) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	return b.getFn(ctx, userUID)
}

func (b *backendStub) EndSession(ctx context.Context, userUID string) error {
	b.mu.Lock()
	b.endSessions++
	b.mu.Unlock()
	if b.endFn != nil {
		return b.endFn(ctx, userUID)
	}
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func premiumProfile(expires *time.Time) *models.Profile {
	return &models.Profile{
		ID:        "uid-1",
		Email:     "farmer@test.com",
		Tier:      models.TierPremium,
		State:     models.StateActive,
		ExpiresAt: expires,
	}
}

func freeProfile() *models.Profile {
	return &models.Profile{
		ID:    "uid-1",
		Email: "farmer@test.com",
		Tier:  models.TierFree,
		State: models.StateActive,
	}
}

func TestManager_StartsLoading(t *testing.T) {
	m := NewManager(&backendStub{}, newNoopLogger())
	assert.Equal(t, StateLoading, m.Snapshot().State)
}

func TestManager_Restore(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		uid         string
		getFn       func(ctx context.Context, userUID string) (*models.Profile, error)
		wantState   State
		wantPremium bool
		wantConfig  bool
	}{
		{
			name:      "no stored session",
			uid:       "",
			wantState: StateUnauthenticated,
		},
		{
			name: "restores premium session",
			uid:  "uid-1",
			getFn: func(_ context.Context, _ string) (*models.Profile, error) {
				return premiumProfile(&future), nil
			},
			wantState:   StateAuthenticated,
			wantPremium: true,
		},
		{
			name: "backend not configured shows setup flag",
			uid:  "uid-1",
			getFn: func(_ context.Context, _ string) (*models.Profile, error) {
				return nil, errs.ErrNotConfigured
			},
			wantState:  StateUnauthenticated,
			wantConfig: true,
		},
		{
			name: "transient failure lands unauthenticated",
			uid:  "uid-1",
			getFn: func(_ context.Context, _ string) (*models.Profile, error) {
				return nil, errs.Transient("test", errors.New("connection refused"))
			},
			wantState: StateUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(&backendStub{getFn: tt.getFn}, newNoopLogger())
			m.Restore(context.Background(), tt.uid)

			snap := m.Snapshot()
			assert.Equal(t, tt.wantState, snap.State)
			assert.Equal(t, tt.wantPremium, snap.Premium)
			assert.Equal(t, tt.wantConfig, snap.ConfigError)
		})
	}
}

func TestManager_SignIn_Success(t *testing.T) {
	future := time.Now().Add(time.Hour)
	backend := &backendStub{
		loginFn: func(_ context.Context, email, _ string) (string, *models.Profile, error) {
			assert.Equal(t, "farmer@test.com", email)
			return "tok", premiumProfile(&future), nil
		},
	}
	m := NewManager(backend, newNoopLogger())

	err := m.SignIn(context.Background(), "farmer@test.com", "secret123")
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, "tok", snap.Token)
	assert.True(t, snap.Premium)
	assert.Empty(t, snap.LastError)
}

func TestManager_SignIn_InvalidCredentials(t *testing.T) {
	backend := &backendStub{
		loginFn: func(_ context.Context, _, _ string) (string, *models.Profile, error) {
			return "", nil, errs.ErrInvalidCredentials
		},
	}
	m := NewManager(backend, newNoopLogger())

	err := m.SignIn(context.Background(), "farmer@test.com", "wrong")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Equal(t, "invalid email or password", snap.LastError)
	assert.False(t, snap.Premium)
}

func TestManager_SignIn_StaleAttemptDiscarded(t *testing.T) {
	firstGate := make(chan struct{})
	backend := &backendStub{}
	backend.loginFn = func(_ context.Context, email, _ string) (string, *models.Profile, error) {
		if email == "slow@test.com" {
			<-firstGate
			p := freeProfile()
			p.Email = "slow@test.com"
			return "stale-token", p, nil
		}
		return "fresh-token", freeProfile(), nil
	}
	m := NewManager(backend, newNoopLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.SignIn(context.Background(), "slow@test.com", "pw")
	}()

	// the second attempt starts after the first and finishes first
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.attempt == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, m.SignIn(context.Background(), "farmer@test.com", "pw"))
	close(firstGate)
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, "fresh-token", snap.Token, "stale attempt must not overwrite the fresh session")
	assert.Equal(t, "farmer@test.com", snap.Profile.Email)
}

func TestManager_SignUp_ThenSignedIn(t *testing.T) {
	registered := false
	backend := &backendStub{
		registerFn: func(_ context.Context, email, _, fullName string) (string, error) {
			registered = true
			assert.Equal(t, "farmer@test.com", email)
			assert.Equal(t, "João Silva", fullName)
			return "uid-1", nil
		},
		loginFn: func(_ context.Context, _, _ string) (string, *models.Profile, error) {
			return "tok", freeProfile(), nil
		},
	}
	m := NewManager(backend, newNoopLogger())

	require.NoError(t, m.SignUp(context.Background(), "farmer@test.com", "secret123", "João Silva"))
	assert.True(t, registered)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.False(t, snap.Premium, "fresh accounts start free")
}

func TestManager_SignUp_DuplicateEmail(t *testing.T) {
	backend := &backendStub{
		registerFn: func(_ context.Context, _, _, _ string) (string, error) {
			return "", errs.ErrEmailTaken
		},
	}
	m := NewManager(backend, newNoopLogger())

	err := m.SignUp(context.Background(), "farmer@test.com", "secret123", "")
	require.ErrorIs(t, err, errs.ErrEmailTaken)
	assert.Equal(t, "this email is already registered", m.Snapshot().LastError)
}

func TestManager_SignOut_ClearsStateEvenWhenRemoteFails(t *testing.T) {
	backend := &backendStub{
		loginFn: func(_ context.Context, _, _ string) (string, *models.Profile, error) {
			return "tok", freeProfile(), nil
		},
		endFn: func(_ context.Context, _ string) error {
			return errs.Transient("test", errors.New("connection refused"))
		},
	}
	m := NewManager(backend, newNoopLogger())
	require.NoError(t, m.SignIn(context.Background(), "farmer@test.com", "pw"))

	err := m.SignOut(context.Background())
	assert.Error(t, err, "remote failure is reported")

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.Token)
	assert.False(t, snap.Premium)
	assert.Equal(t, 1, backend.endSessions)
}

func TestManager_Refresh_RecomputesEntitlement(t *testing.T) {
	future := time.Now().Add(time.Hour)
	profile := freeProfile()
	backend := &backendStub{
		loginFn: func(_ context.Context, _, _ string) (string, *models.Profile, error) {
			return "tok", profile, nil
		},
		getFn: func(_ context.Context, _ string) (*models.Profile, error) {
			return premiumProfile(&future), nil
		},
	}
	m := NewManager(backend, newNoopLogger())
	require.NoError(t, m.SignIn(context.Background(), "farmer@test.com", "pw"))
	assert.False(t, m.Snapshot().Premium)

	// subscription was created elsewhere; refresh picks it up
	require.NoError(t, m.Refresh(context.Background()))
	assert.True(t, m.Snapshot().Premium)
}

func TestManager_HandleEvent(t *testing.T) {
	future := time.Now().Add(time.Hour)
	backend := &backendStub{
		loginFn: func(_ context.Context, _, _ string) (string, *models.Profile, error) {
			return "tok", freeProfile(), nil
		},
		getFn: func(_ context.Context, _ string) (*models.Profile, error) {
			return premiumProfile(&future), nil
		},
	}
	m := NewManager(backend, newNoopLogger())
	require.NoError(t, m.SignIn(context.Background(), "farmer@test.com", "pw"))

	m.HandleEvent(context.Background(), EventTokenRefreshed)
	assert.True(t, m.Snapshot().Premium)

	m.HandleEvent(context.Background(), EventSignedOut)
	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Profile)
}

func TestManager_Subscribe(t *testing.T) {
	backend := &backendStub{
		loginFn: func(_ context.Context, _, _ string) (string, *models.Profile, error) {
			return "tok", freeProfile(), nil
		},
	}
	m := NewManager(backend, newNoopLogger())
	ch := m.Subscribe()

	require.NoError(t, m.SignIn(context.Background(), "farmer@test.com", "pw"))

	select {
	case snap := <-ch:
		assert.Equal(t, StateAuthenticated, snap.State)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}
