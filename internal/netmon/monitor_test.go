package netmon

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicdesk/clinicsync/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMonitor(url string) *Monitor {
	return New(config.NetworkConfig{
		ProbeURL:      url,
		ProbeTimeout:  500 * time.Millisecond,
		CheckInterval: time.Hour, // ticks never fire during tests
	}, discardLogger())
}

func TestUnknownReadsAsOffline(t *testing.T) {
	m := newTestMonitor("http://127.0.0.1:0")
	assert.Equal(t, StatusUnknown, m.Status())
	assert.False(t, m.IsOnline())
}

func TestCheckNowOnlineAndOffline(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL)

	assert.True(t, m.CheckNow(context.Background()))
	assert.True(t, m.IsOnline())
	assert.Equal(t, StatusOnline, m.Status())

	fail.Store(true)
	assert.False(t, m.CheckNow(context.Background()))
	assert.False(t, m.IsOnline())
}

func TestProbeFailureIsOffline(t *testing.T) {
	// Nothing listens here; the probe errors out immediately.
	m := newTestMonitor("http://127.0.0.1:1")
	assert.False(t, m.CheckNow(context.Background()))
	assert.Equal(t, StatusOffline, m.Status())
}

func TestTransitionEventsFireOncePerChange(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := newTestMonitor(srv.URL)
	events := m.Subscribe()
	ctx := context.Background()

	m.CheckNow(ctx) // unknown -> online: event
	m.CheckNow(ctx) // online -> online: no event
	fail.Store(true)
	m.CheckNow(ctx) // online -> offline: event
	m.CheckNow(ctx) // offline -> offline: no event
	fail.Store(false)
	m.CheckNow(ctx) // offline -> online: event

	var got []bool
	for {
		select {
		case ev := <-events:
			got = append(got, ev.Online)
		default:
			assert.Equal(t, []bool{true, false, true}, got)
			return
		}
	}
}
