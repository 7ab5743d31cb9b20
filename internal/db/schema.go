package db

import "fmt"

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
	id               TEXT PRIMARY KEY,
	patient_id       TEXT NOT NULL DEFAULT '',
	patient_name     TEXT NOT NULL DEFAULT '',
	date             TEXT NOT NULL DEFAULT '',
	time             TEXT NOT NULL DEFAULT '',
	appointment_type TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
	doctor_price     REAL NOT NULL DEFAULT 0,
	follow_up_price  REAL NOT NULL DEFAULT 0,
	additional_fees  REAL NOT NULL DEFAULT 0,
	total_amount     REAL NOT NULL DEFAULT 0,
	fees             TEXT NOT NULL DEFAULT '[]',
	clinic_id        TEXT NOT NULL DEFAULT '',
	clinic_name      TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL,
	synced_to_online INTEGER NOT NULL DEFAULT 0,
	synced_at        TEXT
);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date, time);
CREATE INDEX IF NOT EXISTS idx_appointments_synced ON appointments(synced_to_online);
CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);

CREATE TABLE IF NOT EXISTS articles (
	id           TEXT PRIMARY KEY,
	title_en     TEXT NOT NULL DEFAULT '',
	title_ar     TEXT NOT NULL DEFAULT '',
	content_en   TEXT NOT NULL DEFAULT '',
	content_ar   TEXT NOT NULL DEFAULT '',
	summary_en   TEXT NOT NULL DEFAULT '',
	summary_ar   TEXT NOT NULL DEFAULT '',
	article_type TEXT NOT NULL DEFAULT 'news',
	image_url    TEXT NOT NULL DEFAULT '',
	published_at TEXT NOT NULL,
	author_id    TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
CREATE INDEX IF NOT EXISTS idx_articles_author ON articles(author_id);

CREATE TABLE IF NOT EXISTS auth_session (
	id             TEXT PRIMARY KEY CHECK (id = 'default'),
	uid            TEXT NOT NULL,
	email          TEXT NOT NULL,
	display_name   TEXT NOT NULL DEFAULT '',
	photo_url      TEXT NOT NULL DEFAULT '',
	email_verified INTEGER NOT NULL DEFAULT 0,
	token          TEXT NOT NULL DEFAULT '',
	expires_at     TEXT NOT NULL,
	last_login_at  TEXT NOT NULL,
	cached_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_info (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// runMigrations brings an existing database up to the current schema version.
// The schema constant always creates the latest layout, so a fresh database
// only needs its version stamped.
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == 0 {
		// Version 0 means either a fresh database or one created before
		// schema_info existed; the CREATE IF NOT EXISTS schema covers both.
		if _, err := db.conn.Exec(schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return db.setSchemaVersion(schemaVersion)
	}

	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	}

	return nil
}

func (db *DB) getSchemaVersion() (int, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM schema_info WHERE key = 'version'`).Scan(&value)
	if err != nil {
		// Missing table or row both mean version 0.
		return 0, nil
	}
	var v int
	fmt.Sscanf(value, "%d", &v)
	return v, nil
}

func (db *DB) setSchemaVersion(version int) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", version))
	return err
}
