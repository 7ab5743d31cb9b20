// Package bridge is the request/response boundary between the UI and the sync
// subsystem. Every response is a tagged envelope: {success, data} on success,
// {success, error} on failure. Failures never cross the boundary as panics;
// they are mapped to stable error codes the UI can switch on.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicsync/internal/auth"
	"github.com/clinicdesk/clinicsync/internal/models"
	"github.com/clinicdesk/clinicsync/internal/netmon"
	"github.com/clinicdesk/clinicsync/internal/remote"
	"github.com/clinicdesk/clinicsync/internal/sync"
)

// Engine is the per-entity sync surface the bridge drives, implemented by
// sync.AppointmentEngine and sync.ArticleEngine.
type Engine interface {
	Pull(ctx context.Context, doctorID string) (*sync.PullResult, error)
	Push(ctx context.Context, doctorID string) (*sync.PushResult, error)
	EnableAutoSync(enable bool)
	AutoSyncActive() bool
}

// Authenticator is the identity surface, implemented by auth.Manager.
type Authenticator interface {
	EmailLogin(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context) error
	GetCurrentUser() *models.User
	IsOnline(ctx context.Context) bool
}

// Connectivity is the monitor surface, implemented by netmon.Monitor.
type Connectivity interface {
	Status() netmon.Status
	CheckNow(ctx context.Context) bool
}

// Store is the slice of the local store the bridge reads and writes directly,
// implemented by db.DB.
type Store interface {
	ListAppointments() ([]models.Appointment, error)
	CreateAppointment(a *models.Appointment) error
	UpdateAppointment(a *models.Appointment) error
	ListArticles() ([]models.Article, error)
	CreateArticle(a *models.Article) error
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Server wires the handlers to their dependencies.
type Server struct {
	store        Store
	auth         Authenticator
	network      Connectivity
	appointments Engine
	articles     Engine
	logger       *slog.Logger
}

// New creates a Server. All dependencies are required.
func New(store Store, authMgr Authenticator, network Connectivity, appointments, articles Engine, logger *slog.Logger) *Server {
	return &Server{
		store:        store,
		auth:         authMgr,
		network:      network,
		appointments: appointments,
		articles:     articles,
		logger:       logger,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondErr(c *gin.Context, err error) {
	status, code := classify(err)
	c.JSON(status, gin.H{"success": false, "error": errorBody{Code: code, Message: err.Error()}})
}

// classify maps subsystem errors onto HTTP statuses and stable codes. Unknown
// errors become internal rather than leaking as a panic or an empty body.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, sync.ErrDoctorIDRequired):
		return http.StatusBadRequest, "doctor-id-required"
	case errors.Is(err, sync.ErrSyncInFlight):
		return http.StatusConflict, "sync-in-progress"
	case errors.Is(err, sync.ErrOffline):
		return http.StatusServiceUnavailable, "offline"
	case errors.Is(err, sync.ErrNotConfigured), errors.Is(err, auth.ErrNotConfigured):
		return http.StatusServiceUnavailable, "not-configured"
	case errors.Is(err, auth.ErrNoCachedCredentials):
		return http.StatusUnauthorized, "no-cached-credentials"
	case errors.Is(err, remote.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, remote.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound, "not-found"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad-request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

var errBadRequest = errors.New("bad request")
