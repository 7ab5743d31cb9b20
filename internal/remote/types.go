package remote

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp handles the remote store's timestamp representations: RFC3339
// strings, epoch seconds, and {"_seconds","_nanoseconds"} objects all appear
// in documents written by older clients.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		for _, f := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(f, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp string %q", s)
	}

	var epoch float64
	if err := json.Unmarshal(data, &epoch); err == nil {
		sec := int64(epoch)
		nsec := int64((epoch - float64(sec)) * 1e9)
		t.Time = time.Unix(sec, nsec).UTC()
		return nil
	}

	var obj struct {
		Seconds     int64 `json:"_seconds"`
		Nanoseconds int64 `json:"_nanoseconds"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Seconds != 0 {
		t.Time = time.Unix(obj.Seconds, obj.Nanoseconds).UTC()
		return nil
	}

	return fmt.Errorf("unrecognized timestamp value: %s", string(data))
}

// AppointmentDoc is an appointment document as stored remotely.
type AppointmentDoc struct {
	ID              string          `json:"id,omitempty"`
	PatientID       string          `json:"patientId"`
	PatientName     string          `json:"patientName"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	AppointmentType string          `json:"appointmentType"`
	Status          string          `json:"status"`
	DoctorPrice     float64         `json:"doctorPrice"`
	FollowUpPrice   float64         `json:"followUpPrice"`
	AdditionalFees  float64         `json:"additionalFees"`
	TotalAmount     float64         `json:"totalAmount"`
	Fees            json.RawMessage `json:"fees,omitempty"`
	ClinicID        string          `json:"clinicId,omitempty"`
	ClinicName      string          `json:"clinicName,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	DoctorID        string          `json:"doctorId,omitempty"`
	DoctorUID       string          `json:"doctorUID,omitempty"`
	Source          string          `json:"source,omitempty"`
	CreatedAt       Timestamp       `json:"createdAt"`
	UpdatedAt       Timestamp       `json:"updatedAt"`
}

// ArticleDoc is an article document as stored remotely.
type ArticleDoc struct {
	ID          string    `json:"id,omitempty"`
	TitleEn     string    `json:"titleEn"`
	TitleAr     string    `json:"titleAr"`
	ContentEn   string    `json:"contentEn"`
	ContentAr   string    `json:"contentAr"`
	SummaryEn   string    `json:"summaryEn,omitempty"`
	SummaryAr   string    `json:"summaryAr,omitempty"`
	ArticleType string    `json:"articleType"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt Timestamp `json:"publishedAt"`
	AuthorID    string    `json:"authorId"`
	Source      string    `json:"source,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// AuthResult is the remote sign-in response.
type AuthResult struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	Token         string    `json:"token"`
	ExpiresAt     Timestamp `json:"expiresAt"`
}
