// Package session owns the current-session lifecycle for an embedding
// presentation layer: sign-in, sign-up, sign-out, session restore and
// change notifications. The manager is the single place collaborator
// errors are translated into user-facing state; it never leaves the
// in-memory session self-contradictory after a failed operation.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/agroclima/agroclima-pro/internal/entitlement"
	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// State is the lifecycle state of the session.
type State int

const (
	// StateLoading is the initial state before the first restore finishes.
	StateLoading State = iota
	// StateUnauthenticated means no user is signed in.
	StateUnauthenticated
	// StateAuthenticated means a user is signed in and a profile snapshot
	// with its entitlement is attached.
	StateAuthenticated
)

// Event is an external session-change notification from the identity
// provider.
type Event int

const (
	// EventSignedIn is emitted after a successful remote sign-in.
	EventSignedIn Event = iota
	// EventTokenRefreshed is emitted when the session token was renewed.
	EventTokenRefreshed
	// EventSignedOut is emitted when the remote session ended.
	EventSignedOut
)

// Snapshot is an immutable view of the session state. Premium is the
// entitlement computed when the profile was last fetched; it is refreshed
// on every refetch, never lazily.
type Snapshot struct {
	State       State
	Profile     *models.Profile
	Token       string
	Premium     bool
	ConfigError bool   // backend not configured; show setup warning, not a login form
	LastError   string // user-facing text of the last failed operation
}

// Backend is the account collaborator the manager drives.
type Backend interface {
	Register(ctx context.Context, email, password, fullName string) (string, error)
	Login(ctx context.Context, email, password string) (string, *models.Profile, error)
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
	EndSession(ctx context.Context, userUID string) error
}

// Manager is the session state machine. All methods are safe for
// concurrent use; results of superseded sign-in attempts are discarded.
type Manager struct {
	backend Backend
	log     *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	snap     Snapshot
	attempt  uint64 // sequence number of the latest sign-in attempt
	watchers []chan Snapshot
}

// NewManager builds a Manager in the Loading state.
func NewManager(backend Backend, log *slog.Logger) *Manager {
	return &Manager{
		backend: backend,
		log:     log,
		now:     time.Now,
		snap:    Snapshot{State: StateLoading},
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe returns a channel that receives every state change. The
// channel is buffered; a slow consumer drops notifications rather than
// blocking the manager.
func (m *Manager) Subscribe() <-chan Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan Snapshot, 8)
	m.watchers = append(m.watchers, ch)
	return ch
}

// Restore resolves the initial state for an already-known account id, or
// lands in Unauthenticated when uid is empty. A not-configured backend
// moves straight to Unauthenticated with the configuration flag set.
func (m *Manager) Restore(ctx context.Context, userUID string) {
	if userUID == "" {
		m.setState(func(s *Snapshot) {
			s.State = StateUnauthenticated
			s.Profile = nil
			s.Premium = false
		})
		return
	}

	profile, err := m.backend.GetProfile(ctx, userUID)
	if err != nil {
		m.applyError("failed to restore session", err)
		return
	}
	m.setState(func(s *Snapshot) {
		s.State = StateAuthenticated
		s.Profile = profile
		s.Premium = entitlement.HasPremiumAccess(profile, m.now())
		s.ConfigError = false
		s.LastError = ""
	})
}

// SignIn authenticates and, on success, attaches the profile and its
// entitlement to the session. Only the most recently initiated attempt may
// mutate the state: a slow response from an older attempt is discarded.
func (m *Manager) SignIn(ctx context.Context, email, pwd string) error {
	m.mu.Lock()
	m.attempt++
	seq := m.attempt
	m.mu.Unlock()

	token, profile, err := m.backend.Login(ctx, email, pwd)

	m.mu.Lock()
	stale := seq != m.attempt
	m.mu.Unlock()
	if stale {
		m.log.Info("discarding result of superseded sign-in attempt")
		return err
	}

	if err != nil {
		m.applyError("sign-in failed", err)
		return err
	}
	m.setState(func(s *Snapshot) {
		s.State = StateAuthenticated
		s.Profile = profile
		s.Token = token
		s.Premium = entitlement.HasPremiumAccess(profile, m.now())
		s.ConfigError = false
		s.LastError = ""
	})
	return nil
}

// SignUp registers a new account and signs it in.
func (m *Manager) SignUp(ctx context.Context, email, pwd, fullName string) error {
	if _, err := m.backend.Register(ctx, email, pwd, fullName); err != nil {
		m.applyError("sign-up failed", err)
		return err
	}
	return m.SignIn(ctx, email, pwd)
}

// SignOut tears down the local session unconditionally. The remote call
// may fail; the local state never stays authenticated against the user's
// intent, so the teardown happens regardless and the error is only
// reported.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	var uid string
	if m.snap.Profile != nil {
		uid = m.snap.Profile.ID
	}
	m.attempt++ // invalidate in-flight sign-in attempts
	m.mu.Unlock()

	var remoteErr error
	if uid != "" {
		if remoteErr = m.backend.EndSession(ctx, uid); remoteErr != nil {
			m.log.Warn("remote sign-out failed, clearing local session anyway", sl.Err(remoteErr))
		}
	}

	m.setState(func(s *Snapshot) {
		s.State = StateUnauthenticated
		s.Profile = nil
		s.Token = ""
		s.Premium = false
		s.LastError = ""
	})
	return remoteErr
}

// Refresh refetches the profile of the signed-in user and recomputes the
// entitlement. Call it after profile updates and subscription events.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	var uid string
	if m.snap.State == StateAuthenticated && m.snap.Profile != nil {
		uid = m.snap.Profile.ID
	}
	m.mu.Unlock()
	if uid == "" {
		return nil
	}

	profile, err := m.backend.GetProfile(ctx, uid)
	if err != nil {
		m.applyError("failed to refresh profile", err)
		return err
	}
	m.setState(func(s *Snapshot) {
		s.Profile = profile
		s.Premium = entitlement.HasPremiumAccess(profile, m.now())
		s.LastError = ""
	})
	return nil
}

// HandleEvent reacts to an external session-change notification.
func (m *Manager) HandleEvent(ctx context.Context, ev Event) {
	switch ev {
	case EventSignedIn, EventTokenRefreshed:
		if err := m.Refresh(ctx); err != nil {
			m.log.Warn("refresh on session event failed", sl.Err(err))
		}
	case EventSignedOut:
		m.setState(func(s *Snapshot) {
			s.State = StateUnauthenticated
			s.Profile = nil
			s.Token = ""
			s.Premium = false
		})
	}
}

// applyError moves the session into a consistent failed state. A
// configuration error lands in Unauthenticated with the setup flag; other
// errors keep the current authentication state but never a premium flag
// the last write did not back.
func (m *Manager) applyError(msg string, err error) {
	m.log.Error(msg, sl.Err(err))
	configErr := errors.Is(err, errs.ErrNotConfigured)
	m.setState(func(s *Snapshot) {
		if configErr {
			s.State = StateUnauthenticated
			s.Profile = nil
			s.Token = ""
			s.Premium = false
			s.ConfigError = true
		} else if s.State == StateLoading {
			s.State = StateUnauthenticated
		}
		s.LastError = userFacing(err)
	})
}

// setState mutates the snapshot under the lock and notifies watchers.
func (m *Manager) setState(mutate func(*Snapshot)) {
	m.mu.Lock()
	mutate(&m.snap)
	snap := m.snap
	watchers := m.watchers
	m.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// userFacing translates a taxonomy error into banner text.
func userFacing(err error) string {
	var partial *errs.PartialFailure
	switch {
	case errors.Is(err, errs.ErrNotConfigured):
		return "backend is not configured, check the service settings"
	case errors.Is(err, errs.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, errs.ErrEmailTaken):
		return "this email is already registered"
	case errors.Is(err, errs.ErrNotFound):
		return "account data could not be found"
	case errors.As(err, &partial):
		return "the operation partially completed, please retry"
	case errors.Is(err, errs.ErrTransient):
		return "temporary failure, try again"
	default:
		return "something went wrong, try again"
	}
}
