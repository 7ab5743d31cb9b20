// Package auth is the single source of truth for "who is logged in", usable
// with or without connectivity. The last successful remote login is cached in
// the local store; while offline, an unexpired cached session whose email
// matches the login attempt is served instead, flagged as offline.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/models"
	"github.com/clinicdesk/clinicsync/internal/remote"
)

// ErrNoCachedCredentials is returned for a login attempt with no connection
// and no matching unexpired cached session.
var ErrNoCachedCredentials = errors.New("no connection and no cached credentials")

// ErrNotConfigured is returned when an online login is attempted without
// remote-store configuration.
var ErrNotConfigured = errors.New("remote store not configured")

// Prober is the connectivity dependency (implemented by netmon.Monitor).
type Prober interface {
	CheckNow(ctx context.Context) bool
	IsOnline() bool
}

// RemoteAuth is the remote sign-in surface (implemented by remote.Client).
type RemoteAuth interface {
	SignIn(ctx context.Context, email, password string) (*remote.AuthResult, error)
	SignOut(ctx context.Context, token string) error
}

// Manager arbitrates authentication state. remoteAuth may be nil when the
// remote store is not configured; cached-session behavior still works.
type Manager struct {
	db         *db.DB
	remoteAuth RemoteAuth
	monitor    Prober
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	current *models.User
}

// New creates a Manager and restores state from the cached session: if one is
// present and unexpired the manager starts authenticated-from-cache, upgraded
// silently when a later online login confirms the same identity.
func New(database *db.DB, remoteAuth RemoteAuth, monitor Prober, logger *slog.Logger) *Manager {
	m := &Manager{
		db:         database,
		remoteAuth: remoteAuth,
		monitor:    monitor,
		logger:     logger,
		now:        time.Now,
	}

	sess, err := database.GetSession()
	if err != nil {
		logger.Warn("auth: load cached session", "err", err)
		return m
	}
	if sess != nil && !sess.Expired(m.now()) {
		m.current = sessionUser(sess, true)
		logger.Debug("auth: restored cached session", "email", sess.Email)
	}
	return m
}

// EmailLogin authenticates with email and password. The offline branch is
// checked first: with no connection the remote is never attempted and the
// cached session is served when it matches and is unexpired. Online rejection
// is a hard failure with no cache fallback.
func (m *Manager) EmailLogin(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if !m.monitor.CheckNow(ctx) {
		return m.offlineLogin(email)
	}

	if m.remoteAuth == nil {
		return nil, ErrNotConfigured
	}

	result, err := m.remoteAuth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("remote sign-in: %w", err)
	}

	now := m.now().UTC()
	sess := &models.AuthSession{
		UID:           result.UID,
		Email:         result.Email,
		DisplayName:   result.DisplayName,
		PhotoURL:      result.PhotoURL,
		EmailVerified: result.EmailVerified,
		Token:         result.Token,
		ExpiresAt:     result.ExpiresAt.Time,
		LastLoginAt:   now,
		CachedAt:      now,
	}
	if err := m.db.SaveSession(sess); err != nil {
		// The login itself succeeded; a cache write failure only costs the
		// next offline fallback.
		m.logger.Warn("auth: cache session", "err", err)
	}

	user := sessionUser(sess, false)
	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	m.logger.Info("auth: signed in", "email", user.Email)
	return copyUser(user), nil
}

func (m *Manager) offlineLogin(email string) (*models.User, error) {
	sess, err := m.db.GetSession()
	if err != nil {
		return nil, fmt.Errorf("load cached session: %w", err)
	}
	if sess == nil || sess.Expired(m.now()) || sess.Email != email {
		return nil, ErrNoCachedCredentials
	}

	user := sessionUser(sess, true)
	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	m.logger.Info("auth: offline login from cache", "email", email)
	return copyUser(user), nil
}

// GetCurrentUser returns the current identity: in-memory first, then the
// cached session, then nil. It never returns an error. Expiry is evaluated
// lazily on every read; an expired cache reads as absent.
func (m *Manager) GetCurrentUser() *models.User {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()

	if current != nil && !current.Offline {
		return copyUser(current)
	}

	sess, err := m.db.GetSession()
	if err != nil {
		m.logger.Warn("auth: read cached session", "err", err)
		return nil
	}
	if sess == nil || sess.Expired(m.now()) {
		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		return nil
	}
	return sessionUser(sess, true)
}

// IsOnline delegates to the network monitor with a synchronous probe.
func (m *Manager) IsOnline(ctx context.Context) bool {
	return m.monitor.CheckNow(ctx)
}

// SignOut performs a best-effort remote sign-out and unconditionally clears
// the local cache. A remote failure never leaves the cache populated.
func (m *Manager) SignOut(ctx context.Context) error {
	sess, err := m.db.GetSession()
	if err != nil {
		m.logger.Warn("auth: load session for sign-out", "err", err)
	}

	if sess != nil && m.remoteAuth != nil && m.monitor.IsOnline() {
		if err := m.remoteAuth.SignOut(ctx, sess.Token); err != nil {
			m.logger.Warn("auth: remote sign-out", "err", err)
		}
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.db.ClearSession(); err != nil {
		return fmt.Errorf("clear cached session: %w", err)
	}
	m.logger.Info("auth: signed out")
	return nil
}

func sessionUser(s *models.AuthSession, offline bool) *models.User {
	return &models.User{
		UID:           s.UID,
		Email:         s.Email,
		DisplayName:   s.DisplayName,
		PhotoURL:      s.PhotoURL,
		EmailVerified: s.EmailVerified,
		Offline:       offline,
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}
