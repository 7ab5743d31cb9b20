package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicdesk/clinicsync/internal/models"
)

// CreateAppointment inserts a locally created appointment. A missing ID gets
// a local-prefixed one; the row starts push-pending (synced_to_online = 0).
func (db *DB) CreateAppointment(a *models.Appointment) error {
	if a.ID == "" {
		a.ID = models.NewLocalAppointmentID()
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	if !models.ValidStatus(a.Status) {
		return fmt.Errorf("invalid appointment status %q", a.Status)
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.SyncedToOnline = false
	a.SyncedAt = nil

	fees, err := marshalFees(a.Fees)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(`
		INSERT INTO appointments (
			id, patient_id, patient_name, date, time, appointment_type, status,
			doctor_price, follow_up_price, additional_fees, total_amount, fees,
			clinic_id, clinic_name, notes, created_at, updated_at,
			synced_to_online, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL)`,
		a.ID, a.PatientID, a.PatientName, a.Date, a.Time, a.AppointmentType, a.Status,
		a.DoctorPrice, a.FollowUpPrice, a.AdditionalFees, a.TotalAmount, fees,
		a.ClinicID, a.ClinicName, a.Notes, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// UpdateAppointment overwrites the mutable fields of an existing appointment
// and advances updated_at. The row is re-dirtied so the edit is picked up by
// the next push cycle.
func (db *DB) UpdateAppointment(a *models.Appointment) error {
	if !models.ValidStatus(a.Status) {
		return fmt.Errorf("invalid appointment status %q", a.Status)
	}

	a.UpdatedAt = time.Now().UTC()
	a.SyncedToOnline = false
	a.SyncedAt = nil

	fees, err := marshalFees(a.Fees)
	if err != nil {
		return err
	}

	res, err := db.conn.Exec(`
		UPDATE appointments SET
			patient_id = ?, patient_name = ?, date = ?, time = ?,
			appointment_type = ?, status = ?,
			doctor_price = ?, follow_up_price = ?, additional_fees = ?, total_amount = ?,
			fees = ?, clinic_id = ?, clinic_name = ?, notes = ?,
			updated_at = ?, synced_to_online = 0, synced_at = NULL
		WHERE id = ?`,
		a.PatientID, a.PatientName, a.Date, a.Time,
		a.AppointmentType, a.Status,
		a.DoctorPrice, a.FollowUpPrice, a.AdditionalFees, a.TotalAmount,
		fees, a.ClinicID, a.ClinicName, a.Notes,
		formatTime(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("appointment %s not found", a.ID)
	}
	return nil
}

// UpsertAppointment inserts or fully overwrites an appointment inside the
// given transaction. The pull path wraps a whole remote batch in one tx so a
// crash mid-pull leaves either all or none of the batch applied.
func UpsertAppointment(tx *sql.Tx, a *models.Appointment) error {
	fees, err := marshalFees(a.Fees)
	if err != nil {
		return err
	}

	var syncedAt any
	if a.SyncedAt != nil {
		syncedAt = formatTime(*a.SyncedAt)
	}
	synced := 0
	if a.SyncedToOnline {
		synced = 1
	}

	_, err = tx.Exec(`
		INSERT INTO appointments (
			id, patient_id, patient_name, date, time, appointment_type, status,
			doctor_price, follow_up_price, additional_fees, total_amount, fees,
			clinic_id, clinic_name, notes, created_at, updated_at,
			synced_to_online, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_id = excluded.patient_id,
			patient_name = excluded.patient_name,
			date = excluded.date,
			time = excluded.time,
			appointment_type = excluded.appointment_type,
			status = excluded.status,
			doctor_price = excluded.doctor_price,
			follow_up_price = excluded.follow_up_price,
			additional_fees = excluded.additional_fees,
			total_amount = excluded.total_amount,
			fees = excluded.fees,
			clinic_id = excluded.clinic_id,
			clinic_name = excluded.clinic_name,
			notes = excluded.notes,
			updated_at = excluded.updated_at,
			synced_to_online = excluded.synced_to_online,
			synced_at = excluded.synced_at`,
		a.ID, a.PatientID, a.PatientName, a.Date, a.Time, a.AppointmentType, a.Status,
		a.DoctorPrice, a.FollowUpPrice, a.AdditionalFees, a.TotalAmount, fees,
		a.ClinicID, a.ClinicName, a.Notes, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		synced, syncedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert appointment %s: %w", a.ID, err)
	}
	return nil
}

const appointmentColumns = `id, patient_id, patient_name, date, time, appointment_type, status,
	doctor_price, follow_up_price, additional_fees, total_amount, fees,
	clinic_id, clinic_name, notes, created_at, updated_at, synced_to_online, synced_at`

// GetAppointment returns a single appointment, or nil when absent.
func (db *DB) GetAppointment(id string) (*models.Appointment, error) {
	row := db.conn.QueryRow(`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAppointments returns all appointments ordered by date/time descending.
func (db *DB) ListAppointments() ([]models.Appointment, error) {
	return db.queryAppointments(`SELECT ` + appointmentColumns + `
		FROM appointments ORDER BY date DESC, time DESC`)
}

// ListUnsyncedAppointments returns the dirty set: rows created or edited
// locally since their last successful push, oldest first.
func (db *DB) ListUnsyncedAppointments() ([]models.Appointment, error) {
	return db.queryAppointments(`SELECT ` + appointmentColumns + `
		FROM appointments WHERE synced_to_online = 0 ORDER BY created_at ASC`)
}

// MarkAppointmentSynced flips a row to synced after a successful push.
func (db *DB) MarkAppointmentSynced(id string, at time.Time) error {
	_, err := db.conn.Exec(
		`UPDATE appointments SET synced_to_online = 1, synced_at = ? WHERE id = ?`,
		formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("mark appointment synced %s: %w", id, err)
	}
	return nil
}

// ReplaceAppointmentID rewrites a local row under the remote-assigned ID once
// a push create succeeds, so later pulls dedupe against the remote identity.
func (db *DB) ReplaceAppointmentID(oldID, newID string) error {
	if oldID == newID {
		return nil
	}
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM appointments WHERE id = ?`, newID); err != nil {
			return fmt.Errorf("drop shadowed row %s: %w", newID, err)
		}
		res, err := tx.Exec(`UPDATE appointments SET id = ? WHERE id = ?`, newID, oldID)
		if err != nil {
			return fmt.Errorf("rename appointment %s: %w", oldID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("appointment %s not found", oldID)
		}
		return nil
	})
}

func (db *DB) queryAppointments(query string, args ...any) ([]models.Appointment, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var (
		a                    models.Appointment
		fees                 string
		createdAt, updatedAt string
		synced               int
		syncedAt             sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.PatientID, &a.PatientName, &a.Date, &a.Time, &a.AppointmentType, &a.Status,
		&a.DoctorPrice, &a.FollowUpPrice, &a.AdditionalFees, &a.TotalAmount, &fees,
		&a.ClinicID, &a.ClinicName, &a.Notes, &createdAt, &updatedAt, &synced, &syncedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.Fees, err = unmarshalFees(fees); err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("appointment %s created_at: %w", a.ID, err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("appointment %s updated_at: %w", a.ID, err)
	}
	a.SyncedToOnline = synced != 0
	if a.SyncedAt, err = nullableTime(syncedAt); err != nil {
		return nil, fmt.Errorf("appointment %s synced_at: %w", a.ID, err)
	}
	return &a, nil
}

func marshalFees(fees []models.FeeItem) (string, error) {
	if len(fees) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(fees)
	if err != nil {
		return "", fmt.Errorf("marshal fees: %w", err)
	}
	return string(data), nil
}

func unmarshalFees(s string) ([]models.FeeItem, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var fees []models.FeeItem
	if err := json.Unmarshal([]byte(s), &fees); err != nil {
		return nil, fmt.Errorf("unmarshal fees: %w", err)
	}
	return fees, nil
}
