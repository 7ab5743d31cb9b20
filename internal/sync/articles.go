package sync

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/models"
	"github.com/clinicdesk/clinicsync/internal/remote"
)

// ArticleEngine reconciles local articles with the remote articles
// collection. Articles carry no dirty flag: pull is whole-collection
// replace-by-id and push upserts every local article, best effort.
type ArticleEngine struct {
	store   *db.DB
	remote  RemoteArticles // nil when the remote store is not configured
	monitor Prober
	logger  *slog.Logger
	sched   *Scheduler

	inFlight sync.Mutex
}

// NewArticleEngine creates the engine. remoteStore may be nil; every
// remote-touching call then short-circuits with ErrNotConfigured.
func NewArticleEngine(store *db.DB, remoteStore RemoteArticles, monitor Prober, interval time.Duration, logger *slog.Logger) *ArticleEngine {
	logger = logger.With("entity", "articles")
	return &ArticleEngine{
		store:   store,
		remote:  remoteStore,
		monitor: monitor,
		logger:  logger,
		sched:   NewScheduler(interval, logger),
	}
}

// Pull fetches all remote articles authored by doctorID and upserts them
// locally in one transaction, replacing by id.
func (e *ArticleEngine) Pull(ctx context.Context, doctorID string) (*PullResult, error) {
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

	docs, err := e.remote.QueryArticles(ctx, "authorId", doctorID)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	now := time.Now().UTC()
	applied := 0
	err = e.store.WithTx(func(tx *sql.Tx) error {
		for _, doc := range docs {
			if doc.ID == "" {
				e.logger.Warn("pull: skipping article without id")
				continue
			}
			if err := db.UpsertArticle(tx, articleFromDoc(doc, now)); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply pull batch: %w", err)
	}

	if err := e.store.SetSetting(db.SettingArticlesSyncedAt, now.Format(time.RFC3339)); err != nil {
		e.logger.Warn("pull: record last sync time", "err", err)
	}

	e.logger.Info("pull complete", "synced", applied)
	return &PullResult{Synced: applied}, nil
}

// Push upserts every local article into the remote collection. The remote
// upsert is atomic per id and reports created vs replaced, which feeds the
// created/updated counts. Per-record failures are counted and skipped.
func (e *ArticleEngine) Push(ctx context.Context, doctorID string) (*PushResult, error) {
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

	articles, err := e.store.ListArticles()
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	result := &PushResult{Attempted: len(articles)}
	for _, art := range articles {
		created, err := e.remote.UpsertArticle(ctx, art.ID, articleToDoc(&art, doctorID))
		if err != nil {
			e.logger.Warn("push: article failed", "id", art.ID, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, RecordError{ID: art.ID, Error: err.Error()})
			continue
		}
		result.Succeeded++
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	e.logger.Info("push complete",
		"attempted", result.Attempted,
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

// EnableAutoSync starts or stops the fixed-interval pull timer, replacing any
// running timer on enable.
func (e *ArticleEngine) EnableAutoSync(enable bool) {
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
func (e *ArticleEngine) AutoSyncActive() bool {
	return e.sched.Active()
}

func articleFromDoc(doc remote.ArticleDoc, now time.Time) *models.Article {
	articleType := models.ArticleType(doc.ArticleType)
	if articleType == "" {
		articleType = models.ArticleTypeNews
	}

	createdAt := doc.CreatedAt.Time
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := doc.UpdatedAt.Time
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	publishedAt := doc.PublishedAt.Time
	if publishedAt.IsZero() {
		publishedAt = createdAt
	}

	return &models.Article{
		ID:          doc.ID,
		TitleEn:     doc.TitleEn,
		TitleAr:     doc.TitleAr,
		ContentEn:   doc.ContentEn,
		ContentAr:   doc.ContentAr,
		SummaryEn:   doc.SummaryEn,
		SummaryAr:   doc.SummaryAr,
		ArticleType: articleType,
		ImageURL:    doc.ImageURL,
		PublishedAt: publishedAt,
		AuthorID:    doc.AuthorID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func articleToDoc(a *models.Article, doctorID string) *remote.ArticleDoc {
	authorID := a.AuthorID
	if authorID == "" {
		authorID = doctorID
	}
	return &remote.ArticleDoc{
		TitleEn:     a.TitleEn,
		TitleAr:     a.TitleAr,
		ContentEn:   a.ContentEn,
		ContentAr:   a.ContentAr,
		SummaryEn:   a.SummaryEn,
		SummaryAr:   a.SummaryAr,
		ArticleType: string(a.ArticleType),
		ImageURL:    a.ImageURL,
		PublishedAt: remote.Timestamp{Time: a.PublishedAt},
		AuthorID:    authorID,
		Source:      remote.SourceMarker,
		CreatedAt:   remote.Timestamp{Time: a.CreatedAt},
		UpdatedAt:   remote.Timestamp{Time: a.UpdatedAt},
	}
}
