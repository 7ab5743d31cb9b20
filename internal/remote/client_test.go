package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicsync/internal/config"
)

func testClient(srv *httptest.Server) *Client {
	return New(config.RemoteConfig{
		BaseURL:   srv.URL,
		APIKey:    "key",
		ProjectID: "clinic-1",
		Timeout:   2 * time.Second,
	})
}

func TestQueryAppointments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/clinic-1/collections/appointments/documents", r.URL.Path)
		assert.Equal(t, "doctorId", r.URL.Query().Get("field"))
		assert.Equal(t, "doc-7", r.URL.Query().Get("value"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"documents": []map[string]any{
				{
					"id":          "remote-1",
					"patientName": "Sara",
					"status":      "confirmed",
					"createdAt":   "2026-01-05T10:00:00Z",
					"updatedAt":   map[string]int64{"_seconds": 1767614400, "_nanoseconds": 0},
				},
			},
		})
	}))
	defer srv.Close()

	docs, err := testClient(srv).QueryAppointments(context.Background(), "doctorId", "doc-7")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "remote-1", docs[0].ID)
	assert.Equal(t, "Sara", docs[0].PatientName)
	assert.Equal(t, 2026, docs[0].CreatedAt.Year())
	assert.False(t, docs[0].UpdatedAt.IsZero(), "timestamp object must decode")
}

func TestCreateAppointmentAssignsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var doc AppointmentDoc
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc.ID = "assigned-1"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	created, err := testClient(srv).CreateAppointment(context.Background(), &AppointmentDoc{
		PatientName: "Omar",
		Source:      SourceMarker,
	})
	require.NoError(t, err)
	assert.Equal(t, "assigned-1", created.ID)
	assert.Equal(t, "Omar", created.PatientName)
}

func TestUpsertArticleCreatedVsReplaced(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusCreated)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := testClient(srv)
	created, err := c.UpsertArticle(context.Background(), "art-1", &ArticleDoc{TitleEn: "t"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.UpsertArticle(context.Background(), "art-1", &ArticleDoc{TitleEn: "t"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSentinelErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"code": "unauthorized", "message": "bad key"})
	}))
	defer srv.Close()

	_, err := testClient(srv).QueryArticles(context.Background(), "authorId", "doc-7")
	assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)
}

func TestSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"code": "unauthorized", "message": "wrong password"})
			return
		}
		json.NewEncoder(w).Encode(AuthResult{
			UID:       "uid-1",
			Email:     body["email"],
			Token:     "tok",
			ExpiresAt: Timestamp{time.Now().Add(time.Hour)},
		})
	}))
	defer srv.Close()

	c := testClient(srv)
	res, err := c.SignIn(context.Background(), "doctor@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", res.UID)

	_, err = c.SignIn(context.Background(), "doctor@example.com", "wrong")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestTimestampFormats(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"rfc3339", `"2026-01-05T10:00:00Z"`},
		{"epoch seconds", `1767614400`},
		{"seconds object", `{"_seconds":1767614400,"_nanoseconds":500}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			assert.False(t, ts.IsZero())
		})
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte("null"), &ts))
	assert.True(t, ts.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"not-a-time"`), &ts))
}
