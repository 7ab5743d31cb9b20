package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/clinicdesk/clinicsync/internal/models"
)

// SaveSession writes the cached auth session, fully replacing any prior row.
// The fixed primary key keeps the table to at most one row.
func (db *DB) SaveSession(s *models.AuthSession) error {
	verified := 0
	if s.EmailVerified {
		verified = 1
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO auth_session (
			id, uid, email, display_name, photo_url, email_verified,
			token, expires_at, last_login_at, cached_at
		) VALUES ('default', ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UID, s.Email, s.DisplayName, s.PhotoURL, verified,
		s.Token, formatTime(s.ExpiresAt), formatTime(s.LastLoginAt), formatTime(s.CachedAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession loads the cached session. Returns nil when no session is cached.
// Expiry is not evaluated here; the auth manager checks it on every read.
func (db *DB) GetSession() (*models.AuthSession, error) {
	var (
		s                                models.AuthSession
		verified                         int
		expiresAt, lastLoginAt, cachedAt string
	)
	err := db.conn.QueryRow(`
		SELECT uid, email, display_name, photo_url, email_verified,
		       token, expires_at, last_login_at, cached_at
		FROM auth_session WHERE id = 'default'`).Scan(
		&s.UID, &s.Email, &s.DisplayName, &s.PhotoURL, &verified,
		&s.Token, &expiresAt, &lastLoginAt, &cachedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s.EmailVerified = verified != 0
	if s.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("session expires_at: %w", err)
	}
	if s.LastLoginAt, err = parseTime(lastLoginAt); err != nil {
		return nil, fmt.Errorf("session last_login_at: %w", err)
	}
	if s.CachedAt, err = parseTime(cachedAt); err != nil {
		return nil, fmt.Errorf("session cached_at: %w", err)
	}
	return &s, nil
}

// ClearSession deletes the cached session. Deleting an absent row is not an
// error; sign-out must always leave the cache empty.
func (db *DB) ClearSession() error {
	if _, err := db.conn.Exec(`DELETE FROM auth_session WHERE id = 'default'`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// TouchSession refreshes last_login_at on the cached row, used when a remote
// check silently confirms the cached identity.
func (db *DB) TouchSession(at time.Time) error {
	_, err := db.conn.Exec(`UPDATE auth_session SET last_login_at = ? WHERE id = 'default'`,
		formatTime(at))
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}
