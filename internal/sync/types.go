// Package sync reconciles the local store with the remote document store in
// both directions, tolerating partial failure. Two engines share one design:
// appointments (dirty-flag driven) and articles (whole-collection replace).
package sync

import "errors"

// Sentinel errors surfaced to the command bridge.
var (
	// ErrNotConfigured means remote configuration is absent; no call was made.
	ErrNotConfigured = errors.New("remote store not configured")

	// ErrDoctorIDRequired rejects a sync call before any I/O happens.
	ErrDoctorIDRequired = errors.New("doctor id is required")

	// ErrOffline means the last known connectivity state is offline.
	ErrOffline = errors.New("no internet connection")

	// ErrSyncInFlight coalesces a trigger that arrives while a sync for the
	// same entity type is already running.
	ErrSyncInFlight = errors.New("sync already in progress")
)

// PullResult summarizes one pull batch. The batch is all-or-nothing: Synced
// is the number of records applied in the single local transaction.
type PullResult struct {
	Synced int `json:"synced"`
}

// PushResult summarizes one push cycle. Records are pushed independently, so
// failures are counted per record, never collapsed into an overall failure.
type PushResult struct {
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Errors    []RecordError `json:"errors,omitempty"`
}

// RecordError identifies one record that failed to push.
type RecordError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Owner fields scoping remote appointment queries. Both are queried and the
// result sets unioned by document id; older documents only carry the legacy
// field.
const (
	OwnerField       = "doctorId"
	OwnerFieldLegacy = "doctorUID"
)
