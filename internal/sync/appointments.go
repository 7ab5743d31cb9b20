package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/models"
	"github.com/clinicdesk/clinicsync/internal/remote"
)

// AppointmentEngine reconciles the local appointments table with the remote
// appointments collection. Pull applies a whole remote batch in one local
// transaction; push walks the dirty set record by record.
type AppointmentEngine struct {
	store   *db.DB
	remote  RemoteAppointments // nil when the remote store is not configured
	monitor Prober
	logger  *slog.Logger
	sched   *Scheduler

	// One in-flight sync per entity type; a second trigger is coalesced
	// into ErrSyncInFlight rather than run concurrently.
	inFlight sync.Mutex
}

// NewAppointmentEngine creates the engine. remoteStore may be nil; every
// remote-touching call then short-circuits with ErrNotConfigured.
func NewAppointmentEngine(store *db.DB, remoteStore RemoteAppointments, monitor Prober, interval time.Duration, logger *slog.Logger) *AppointmentEngine {
	logger = logger.With("entity", "appointments")
	return &AppointmentEngine{
		store:   store,
		remote:  remoteStore,
		monitor: monitor,
		logger:  logger,
		sched:   NewScheduler(interval, logger),
	}
}

// Pull fetches all remote appointments owned by doctorID — under both the
// current and the legacy owner field — and upserts them locally inside one
// transaction. A caller observing success sees all-or-nothing for the batch.
func (e *AppointmentEngine) Pull(ctx context.Context, doctorID string) (*PullResult, error) {
	if doctorID == "" {
		return nil, ErrDoctorIDRequired
	}
	if !e.inFlight.TryLock() {
		return nil, ErrSyncInFlight
	}
	defer e.inFlight.Unlock()
	if e.remote == nil {
		return nil, ErrNotConfigured
	}
	if !e.monitor.IsOnline() {
		return nil, ErrOffline
	}

	primary, err := e.remote.QueryAppointments(ctx, OwnerField, doctorID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", OwnerField, err)
	}
	legacy, err := e.remote.QueryAppointments(ctx, OwnerFieldLegacy, doctorID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", OwnerFieldLegacy, err)
	}

	// Union by document id; the later result wins on duplicates.
	merged := make(map[string]remote.AppointmentDoc, len(primary)+len(legacy))
	order := make([]string, 0, len(primary)+len(legacy))
	for _, doc := range append(primary, legacy...) {
		if doc.ID == "" {
			e.logger.Warn("pull: skipping document without id")
			continue
		}
		if _, seen := merged[doc.ID]; !seen {
			order = append(order, doc.ID)
		}
		merged[doc.ID] = doc
	}

	now := time.Now().UTC()
	err = e.store.WithTx(func(tx *sql.Tx) error {
		for _, id := range order {
			appt := appointmentFromDoc(merged[id], now, e.logger)
			if err := db.UpsertAppointment(tx, appt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply pull batch: %w", err)
	}

	if err := e.store.SetSetting(db.SettingAppointmentsSyncedAt, now.Format(time.RFC3339)); err != nil {
		e.logger.Warn("pull: record last sync time", "err", err)
	}

	e.logger.Info("pull complete", "synced", len(order))
	return &PullResult{Synced: len(order)}, nil
}

// Push sends every dirty local appointment to the remote store. Records whose
// id carries the local prefix go through create; the rest update by id. Each
// record is independent: one failure is logged and counted, and the batch
// continues.
func (e *AppointmentEngine) Push(ctx context.Context, doctorID string) (*PushResult, error) {
	if doctorID == "" {
		return nil, ErrDoctorIDRequired
	}
	if !e.inFlight.TryLock() {
		return nil, ErrSyncInFlight
	}
	defer e.inFlight.Unlock()
	if e.remote == nil {
		return nil, ErrNotConfigured
	}
	if !e.monitor.IsOnline() {
		return nil, ErrOffline
	}

	// Snapshot of the dirty set; records dirtied after this point wait for
	// the next cycle.
	dirty, err := e.store.ListUnsyncedAppointments()
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}

	result := &PushResult{Attempted: len(dirty)}
	for _, appt := range dirty {
		if err := e.pushOne(ctx, &appt, doctorID, result); err != nil {
			e.logger.Warn("push: record failed", "id", appt.ID, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, RecordError{ID: appt.ID, Error: err.Error()})
			continue
		}
		result.Succeeded++
	}

	e.logger.Info("push complete",
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func (e *AppointmentEngine) pushOne(ctx context.Context, appt *models.Appointment, doctorID string, result *PushResult) error {
	doc := appointmentToDoc(appt, doctorID)
	localID := appt.ID

	if models.IsLocalAppointmentID(appt.ID) {
		created, err := e.remote.CreateAppointment(ctx, doc)
		if err != nil {
			return fmt.Errorf("remote create: %w", err)
		}
		if created != nil && created.ID != "" && created.ID != localID {
			if err := e.store.ReplaceAppointmentID(localID, created.ID); err != nil {
				return fmt.Errorf("adopt remote id: %w", err)
			}
			localID = created.ID
		}
		result.Created++
	} else {
		if err := e.remote.UpdateAppointment(ctx, appt.ID, doc); err != nil {
			return fmt.Errorf("remote update: %w", err)
		}
		result.Updated++
	}

	if err := e.store.MarkAppointmentSynced(localID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// EnableAutoSync starts or stops the fixed-interval pull timer. Enabling
// while already enabled replaces the timer. Each tick reads the acting doctor
// id from settings; ticks without one are skipped.
func (e *AppointmentEngine) EnableAutoSync(enable bool) {
	if !enable {
		e.sched.Stop()
		return
	}
	e.sched.Start(func(ctx context.Context) {
		doctorID, err := e.store.GetSetting(db.SettingDoctorID)
		if err != nil || doctorID == "" {
			e.logger.Debug("auto-sync: no acting doctor configured")
			return
		}
		if _, err := e.Pull(ctx, doctorID); err != nil {
			e.logger.Warn("auto-sync pull", "err", err)
		}
	})
}

// AutoSyncActive reports whether the interval timer is running.
func (e *AppointmentEngine) AutoSyncActive() bool {
	return e.sched.Active()
}

// appointmentFromDoc maps a remote document into the local row shape. Rows
// arriving via pull are by definition already synced.
func appointmentFromDoc(doc remote.AppointmentDoc, syncedAt time.Time, logger *slog.Logger) *models.Appointment {
	status := models.AppointmentStatus(doc.Status)
	if !models.ValidStatus(status) {
		logger.Warn("pull: unknown status, defaulting to pending", "id", doc.ID, "status", doc.Status)
		status = models.StatusPending
	}

	var fees []models.FeeItem
	if len(doc.Fees) > 0 {
		if err := json.Unmarshal(doc.Fees, &fees); err != nil {
			logger.Warn("pull: unreadable fee list", "id", doc.ID, "err", err)
			fees = nil
		}
	}

	createdAt := doc.CreatedAt.Time
	if createdAt.IsZero() {
		createdAt = syncedAt
	}
	updatedAt := doc.UpdatedAt.Time
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	at := syncedAt
	return &models.Appointment{
		ID:              doc.ID,
		PatientID:       doc.PatientID,
		PatientName:     doc.PatientName,
		Date:            doc.Date,
		Time:            doc.Time,
		AppointmentType: doc.AppointmentType,
		Status:          status,
		DoctorPrice:     doc.DoctorPrice,
		FollowUpPrice:   doc.FollowUpPrice,
		AdditionalFees:  doc.AdditionalFees,
		TotalAmount:     doc.TotalAmount,
		Fees:            fees,
		ClinicID:        doc.ClinicID,
		ClinicName:      doc.ClinicName,
		Notes:           doc.Notes,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		SyncedToOnline:  true,
		SyncedAt:        &at,
	}
}

// appointmentToDoc maps a local row to the remote document shape, embedding
// both owner fields and the source marker identifying this client.
func appointmentToDoc(a *models.Appointment, doctorID string) *remote.AppointmentDoc {
	var fees json.RawMessage
	if len(a.Fees) > 0 {
		fees, _ = json.Marshal(a.Fees)
	}
	return &remote.AppointmentDoc{
		PatientID:       a.PatientID,
		PatientName:     a.PatientName,
		Date:            a.Date,
		Time:            a.Time,
		AppointmentType: a.AppointmentType,
		Status:          string(a.Status),
		DoctorPrice:     a.DoctorPrice,
		FollowUpPrice:   a.FollowUpPrice,
		AdditionalFees:  a.AdditionalFees,
		TotalAmount:     a.TotalAmount,
		Fees:            fees,
		ClinicID:        a.ClinicID,
		ClinicName:      a.ClinicName,
		Notes:           a.Notes,
		DoctorID:        doctorID,
		DoctorUID:       doctorID,
		Source:          remote.SourceMarker,
		CreatedAt:       remote.Timestamp{Time: a.CreatedAt},
		UpdatedAt:       remote.Timestamp{Time: a.UpdatedAt},
	}
}
