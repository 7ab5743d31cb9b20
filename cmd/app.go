package cmd

import (
	"github.com/clinicdesk/clinicsync/internal/auth"
	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/netmon"
	"github.com/clinicdesk/clinicsync/internal/remote"
	"github.com/clinicdesk/clinicsync/internal/sync"
)

// app holds the wired subsystem shared by the commands. The remote client is
// nil when the remote store is not configured; everything local still works.
type app struct {
	store        *db.DB
	remote       *remote.Client
	monitor      *netmon.Monitor
	auth         *auth.Manager
	appointments *sync.AppointmentEngine
	articles     *sync.ArticleEngine
}

// openApp opens the existing database and wires every component. Callers must
// Close when done.
func openApp() (*app, error) {
	store, err := db.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	monitor := netmon.New(cfg.Network, logger)

	var client *remote.Client
	if cfg.Remote.Configured() {
		client = remote.New(cfg.Remote)
	} else {
		logger.Warn("remote store not configured; running local-only")
	}

	a := &app{
		store:   store,
		remote:  client,
		monitor: monitor,
	}
	a.auth = auth.New(store, remoteAuthOrNil(client), monitor, logger)
	a.appointments = sync.NewAppointmentEngine(store, remoteAppointmentsOrNil(client), monitor, cfg.Sync.AppointmentsInterval, logger)
	a.articles = sync.NewArticleEngine(store, remoteArticlesOrNil(client), monitor, cfg.Sync.ArticlesInterval, logger)
	return a, nil
}

func (a *app) Close() {
	a.appointments.EnableAutoSync(false)
	a.articles.EnableAutoSync(false)
	a.store.Close()
}

// A nil *remote.Client must become a nil interface, not an interface wrapping
// a nil pointer, or the engines' nil checks stop working.
func remoteAuthOrNil(c *remote.Client) auth.RemoteAuth {
	if c == nil {
		return nil
	}
	return c
}

func remoteAppointmentsOrNil(c *remote.Client) sync.RemoteAppointments {
	if c == nil {
		return nil
	}
	return c
}

func remoteArticlesOrNil(c *remote.Client) sync.RemoteArticles {
	if c == nil {
		return nil
	}
	return c
}

// doctorID resolves the acting doctor: flag value first, then the stored
// setting.
func (a *app) doctorID(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	id, _ := a.store.GetSetting(db.SettingDoctorID)
	return id
}
