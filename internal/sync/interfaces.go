package sync

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/clinicdesk/clinicsync/internal/remote"
)

// RemoteAppointments is the remote surface the appointment engine needs,
// implemented by remote.Client.
type RemoteAppointments interface {
	QueryAppointments(ctx context.Context, field, value string) ([]remote.AppointmentDoc, error)
	CreateAppointment(ctx context.Context, doc *remote.AppointmentDoc) (*remote.AppointmentDoc, error)
	UpdateAppointment(ctx context.Context, id string, doc *remote.AppointmentDoc) error
}

// RemoteArticles is the remote surface the article engine needs, implemented
// by remote.Client.
type RemoteArticles interface {
	QueryArticles(ctx context.Context, field, value string) ([]remote.ArticleDoc, error)
	UpsertArticle(ctx context.Context, id string, doc *remote.ArticleDoc) (bool, error)
}

// Prober exposes the network monitor's last known state. Sync never probes
// synchronously; it reads the shared value the monitor keeps fresh.
type Prober interface {
	IsOnline() bool
}
