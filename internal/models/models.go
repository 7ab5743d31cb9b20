package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ArticleType discriminates article categories.
type ArticleType string

const (
	ArticleTypeNews   ArticleType = "news"
	ArticleTypeHealth ArticleType = "health"
	ArticleTypeClinic ArticleType = "clinic"
)

// LocalIDPrefix marks appointment IDs generated on this device before they
// have been pushed. Push routing relies on it: prefixed IDs go through remote
// create, everything else through remote update.
const LocalIDPrefix = "appointment_"

// NewLocalAppointmentID generates a local appointment ID of the form
// appointment_<unixSeconds>_<8 hex chars>.
func NewLocalAppointmentID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s%d_%s", LocalIDPrefix, time.Now().Unix(), hex.EncodeToString(b))
}

// IsLocalAppointmentID reports whether id was generated locally and has never
// been assigned a remote document ID.
func IsLocalAppointmentID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// NewLocalArticleID generates an ID for a locally authored article. Unlike
// appointments there is no distinguishing prefix; the push path relies on the
// remote store's atomic upsert-by-id instead of ID shape.
func NewLocalArticleID() string {
	return uuid.NewString()
}

// FeeItem is one entry in an appointment's open-ended fee list.
// The list is serialized to the fees JSON column through this schema.
type FeeItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Appointment is the locally mirrored appointment record.
type Appointment struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patientId"`
	PatientName     string            `json:"patientName"`
	Date            string            `json:"date"` // YYYY-MM-DD
	Time            string            `json:"time"` // HH:MM
	AppointmentType string            `json:"appointmentType"`
	Status          AppointmentStatus `json:"status"`
	DoctorPrice     float64           `json:"doctorPrice"`
	FollowUpPrice   float64           `json:"followUpPrice"`
	AdditionalFees  float64           `json:"additionalFees"`
	TotalAmount     float64           `json:"totalAmount"`
	Fees            []FeeItem         `json:"fees,omitempty"`
	ClinicID        string            `json:"clinicId,omitempty"`
	ClinicName      string            `json:"clinicName,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	// SyncedToOnline is false while the record has local changes that have
	// not been pushed; such records are picked up by the next push cycle.
	SyncedToOnline bool       `json:"syncedToOnline"`
	SyncedAt       *time.Time `json:"syncedAt,omitempty"`
}

// Article is the locally mirrored bilingual article record. Articles carry no
// dirty flag; they are reconciled by whole-collection replace-by-id.
type Article struct {
	ID          string      `json:"id"`
	TitleEn     string      `json:"titleEn"`
	TitleAr     string      `json:"titleAr"`
	ContentEn   string      `json:"contentEn"`
	ContentAr   string      `json:"contentAr"`
	SummaryEn   string      `json:"summaryEn,omitempty"`
	SummaryAr   string      `json:"summaryAr,omitempty"`
	ArticleType ArticleType `json:"articleType"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	PublishedAt time.Time   `json:"publishedAt"`
	AuthorID    string      `json:"authorId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// AuthSession is the singleton cached login. At most one row exists (fixed id
// "default"); writing a new session replaces the old one.
type AuthSession struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expiresAt"`
	LastLoginAt   time.Time `json:"lastLoginAt"`
	CachedAt      time.Time `json:"cachedAt"`
}

// Expired reports whether the cached session's token has passed its expiry.
// Expired sessions must never be served as authenticated.
func (s *AuthSession) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// User is the identity handed to the UI. Offline marks identities served from
// the cache while no connection was available.
type User struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	Offline       bool   `json:"offline"`
}
