package sync

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/models"
	"github.com/clinicdesk/clinicsync/internal/remote"
	"github.com/clinicdesk/clinicsync/internal/sync/mocks"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Initialize(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func onlineProber(ctrl *gomock.Controller) *mocks.MockProber {
	p := mocks.NewMockProber(ctrl)
	p.EXPECT().IsOnline().Return(true).AnyTimes()
	return p
}

// seedRemoteAppointment inserts a row that already carries a remote document
// id, optionally dirty so it lands in the next push cycle.
func seedRemoteAppointment(t *testing.T, store *db.DB, id string, createdAt time.Time, dirty bool) {
	t.Helper()
	syncedAt := createdAt
	a := &models.Appointment{
		ID:             id,
		PatientName:    "Patient " + id,
		Date:           "2026-03-01",
		Time:           "10:00",
		Status:         models.StatusConfirmed,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		SyncedToOnline: !dirty,
	}
	if !dirty {
		a.SyncedAt = &syncedAt
	}
	require.NoError(t, store.WithTx(func(tx *sql.Tx) error {
		return db.UpsertAppointment(tx, a)
	}))
}

func apptDoc(id, patient, status string) remote.AppointmentDoc {
	return remote.AppointmentDoc{
		ID:          id,
		PatientName: patient,
		Date:        "2026-03-01",
		Time:        "09:30",
		Status:      status,
		TotalAmount: 150,
		CreatedAt:   remote.Timestamp{Time: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)},
		UpdatedAt:   remote.Timestamp{Time: time.Date(2026, 2, 21, 8, 0, 0, 0, time.UTC)},
	}
}

func TestAppointmentPullValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	e := NewAppointmentEngine(store, nil, onlineProber(ctrl), time.Minute, testLogger())
	_, err := e.Pull(context.Background(), "")
	assert.ErrorIs(t, err, ErrDoctorIDRequired)

	// nil remote short-circuits before any network use.
	_, err = e.Pull(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAppointmentPullOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IsOnline().Return(false)
	remoteMock := mocks.NewMockRemoteAppointments(ctrl)

	e := NewAppointmentEngine(store, remoteMock, prober, time.Minute, testLogger())
	_, err := e.Pull(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestAppointmentPullMergesLegacyOwnerField(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	remoteMock := mocks.NewMockRemoteAppointments(ctrl)
	remoteMock.EXPECT().
		QueryAppointments(gomock.Any(), OwnerField, "doc-1").
		Return([]remote.AppointmentDoc{
			apptDoc("a1", "Alice", "confirmed"),
			apptDoc("a2", "Bob", "pending"),
		}, nil)
	remoteMock.EXPECT().
		QueryAppointments(gomock.Any(), OwnerFieldLegacy, "doc-1").
		Return([]remote.AppointmentDoc{
			apptDoc("a2", "Bob (legacy)", "pending"), // duplicate of the primary result
			apptDoc("a3", "Carol", "completed"),
		}, nil)

	e := NewAppointmentEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	res, err := e.Pull(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Synced)

	all, err := store.ListAppointments()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Rows arriving via pull are marked synced.
	a1, err := store.GetAppointment("a1")
	require.NoError(t, err)
	require.NotNil(t, a1)
	assert.True(t, a1.SyncedToOnline)
	require.NotNil(t, a1.SyncedAt)

	// Last sync time is recorded.
	at, err := store.GetSetting(db.SettingAppointmentsSyncedAt)
	require.NoError(t, err)
	assert.NotEmpty(t, at)
}

func TestAppointmentPullIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	docs := []remote.AppointmentDoc{apptDoc("a1", "Alice", "confirmed")}
	remoteMock := mocks.NewMockRemoteAppointments(ctrl)
	remoteMock.EXPECT().QueryAppointments(gomock.Any(), OwnerField, "doc-1").Return(docs, nil).Times(2)
	remoteMock.EXPECT().QueryAppointments(gomock.Any(), OwnerFieldLegacy, "doc-1").Return(nil, nil).Times(2)

	e := NewAppointmentEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	for i := 0; i < 2; i++ {
		res, err := e.Pull(context.Background(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Synced)
	}

	all, err := store.ListAppointments()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAppointmentPullUnknownStatusDefaultsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	remoteMock := mocks.NewMockRemoteAppointments(ctrl)
	remoteMock.EXPECT().QueryAppointments(gomock.Any(), OwnerField, "doc-1").
		Return([]remote.AppointmentDoc{apptDoc("a1", "Alice", "rescheduled")}, nil)
	remoteMock.EXPECT().QueryAppointments(gomock.Any(), OwnerFieldLegacy, "doc-1").Return(nil, nil)

	e := NewAppointmentEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	_, err := e.Pull(context.Background(), "doc-1")
	require.NoError(t, err)

	a1, err := store.GetAppointment("a1")
	require.NoError(t, err)
	require.NotNil(t, a1)
	assert.Equal(t, models.StatusPending, a1.Status)
}

func TestAppointmentPushRoutesByIDShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	// One locally created row (prefixed id) and one dirty edit of a remote row.
	local := &models.Appointment{PatientName: "Newly booked", Date: "2026-03-02", Time: "11:00"}
	require.NoError(t, store.CreateAppointment(local))
	require.True(t, models.IsLocalAppointmentID(local.ID))
	seedRemoteAppointment(t, store, "rem-1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), true)

	remoteMock := mocks.NewMockRemoteAppointments(ctrl)
	remoteMock.EXPECT().
		CreateAppointment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *remote.AppointmentDoc) (*remote.AppointmentDoc, error) {
			assert.Equal(t, "doc-1", doc.DoctorID)
			assert.Equal(t, "doc-1", doc.DoctorUID)
			assert.Equal(t, remote.SourceMarker, doc.Source)
			out := *doc
			out.ID = "rem-new"
			return &out, nil
		})
	remoteMock.EXPECT().UpdateAppointment(gomock.Any(), "rem-1", gomock.Any()).Return(nil)

	e := NewAppointmentEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	res, err := e.Push(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.Failed)

	// The local row now lives under the remote-assigned id, marked synced.
	gone, err := store.GetAppointment(local.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	adopted, err := store.GetAppointment("rem-new")
	require.NoError(t, err)
	require.NotNil(t, adopted)
	assert.True(t, adopted.SyncedToOnline)

	dirty, err := store.ListUnsyncedAppointments()
	require.NoError(t, err)
	assert.Empty(t, dirty)
}

func TestAppointmentPushPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seedRemoteAppointment(t, store, "rem-1", base, true)
	seedRemoteAppointment(t, store, "rem-2", base.Add(time.Minute), true)
	seedRemoteAppointment(t, store, "rem-3", base.Add(2*time.Minute), true)

	remoteMock := mocks.NewMockRemoteAppointments(ctrl)
	remoteMock.EXPECT().UpdateAppointment(gomock.Any(), "rem-1", gomock.Any()).Return(nil)
	remoteMock.EXPECT().UpdateAppointment(gomock.Any(), "rem-2", gomock.Any()).Return(errors.New("boom"))
	remoteMock.EXPECT().UpdateAppointment(gomock.Any(), "rem-3", gomock.Any()).Return(nil)

	e := NewAppointmentEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	res, err := e.Push(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "rem-2", res.Errors[0].ID)

	// The failed record stays dirty for the next cycle; the others are clean.
	dirty, err := store.ListUnsyncedAppointments()
	require.NoError(t, err)
	require.Len(t, dirty, 1)
	assert.Equal(t, "rem-2", dirty[0].ID)
}

func TestAppointmentSyncInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	remoteMock := mocks.NewMockRemoteAppointments(ctrl)
	e := NewAppointmentEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())

	e.inFlight.Lock()
	defer e.inFlight.Unlock()

	_, err := e.Pull(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrSyncInFlight)
	_, err = e.Push(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrSyncInFlight)
}

func TestAppointmentAutoSyncToggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	e := NewAppointmentEngine(store, mocks.NewMockRemoteAppointments(ctrl), onlineProber(ctrl), time.Hour, testLogger())
	assert.False(t, e.AutoSyncActive())

	e.EnableAutoSync(true)
	assert.True(t, e.AutoSyncActive())

	// Enabling again replaces the timer rather than stacking a second one.
	e.EnableAutoSync(true)
	assert.True(t, e.AutoSyncActive())

	e.EnableAutoSync(false)
	assert.False(t, e.AutoSyncActive())

	// Disabling when already stopped is a no-op.
	e.EnableAutoSync(false)
	assert.False(t, e.AutoSyncActive())
}

func TestSchedulerRunsOnTick(t *testing.T) {
	s := NewScheduler(10*time.Millisecond, testLogger())
	ticks := make(chan struct{}, 1)
	s.Start(func(ctx context.Context) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	defer s.Stop()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never fired")
	}
}
