package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Well-known settings keys.
const (
	SettingDoctorID             = "sync.doctor_id"
	SettingAppointmentsSyncedAt = "sync.appointments.last_sync_at"
	SettingArticlesSyncedAt     = "sync.articles.last_sync_at"
)

// GetSetting returns the raw value for key, or "" when unset.
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a scalar value under key.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key. Missing keys are ignored.
func (db *DB) DeleteSetting(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// GetSettingJSON unmarshals a JSON-serialized setting into out. Returns
// (false, nil) when the key is unset.
func (db *DB) GetSettingJSON(key string, out any) (bool, error) {
	raw, err := db.GetSetting(key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("unmarshal setting %s: %w", key, err)
	}
	return true, nil
}

// SetSettingJSON stores value JSON-serialized under key.
func (db *DB) SetSettingJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal setting %s: %w", key, err)
	}
	return db.SetSetting(key, string(data))
}
