package sync

import (
	"context"
	"errors"
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

func articleDoc(id, titleEn string) remote.ArticleDoc {
	return remote.ArticleDoc{
		ID:          id,
		TitleEn:     titleEn,
		TitleAr:     "عنوان",
		ContentEn:   "content",
		ContentAr:   "محتوى",
		ArticleType: "health",
		AuthorID:    "doc-1",
		PublishedAt: remote.Timestamp{Time: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		CreatedAt:   remote.Timestamp{Time: time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)},
		UpdatedAt:   remote.Timestamp{Time: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
	}
}

func TestArticlePullReplacesByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	// Stale local copy of ar-1; pull overwrites it in place.
	require.NoError(t, store.CreateArticle(&models.Article{
		ID:       "ar-1",
		TitleEn:  "Old title",
		AuthorID: "doc-1",
	}))

	remoteMock := mocks.NewMockRemoteArticles(ctrl)
	remoteMock.EXPECT().
		QueryArticles(gomock.Any(), "authorId", "doc-1").
		Return([]remote.ArticleDoc{
			articleDoc("ar-1", "Fresh title"),
			articleDoc("ar-2", "Second article"),
		}, nil)

	e := NewArticleEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	res, err := e.Pull(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)

	got, err := store.GetArticle("ar-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Fresh title", got.TitleEn)
	assert.Equal(t, models.ArticleTypeHealth, got.ArticleType)

	all, err := store.ListArticles()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	at, err := store.GetSetting(db.SettingArticlesSyncedAt)
	require.NoError(t, err)
	assert.NotEmpty(t, at)
}

func TestArticlePullValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	e := NewArticleEngine(store, nil, onlineProber(ctrl), time.Minute, testLogger())
	_, err := e.Pull(context.Background(), "")
	assert.ErrorIs(t, err, ErrDoctorIDRequired)
	_, err = e.Pull(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IsOnline().Return(false)
	e = NewArticleEngine(store, mocks.NewMockRemoteArticles(ctrl), prober, time.Minute, testLogger())
	_, err = e.Pull(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestArticlePushCountsCreatedAndUpdated(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	require.NoError(t, store.CreateArticle(&models.Article{ID: "ar-1", TitleEn: "Existing remotely", AuthorID: "doc-1"}))
	fresh := &models.Article{TitleEn: "Written offline"}
	require.NoError(t, store.CreateArticle(fresh))

	remoteMock := mocks.NewMockRemoteArticles(ctrl)
	remoteMock.EXPECT().UpsertArticle(gomock.Any(), "ar-1", gomock.Any()).Return(false, nil)
	remoteMock.EXPECT().
		UpsertArticle(gomock.Any(), fresh.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, doc *remote.ArticleDoc) (bool, error) {
			// Authorless local drafts are attributed to the acting doctor.
			assert.Equal(t, "doc-1", doc.AuthorID)
			assert.Equal(t, remote.SourceMarker, doc.Source)
			return true, nil
		})

	e := NewArticleEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	res, err := e.Push(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.Failed)
}

func TestArticlePushPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	require.NoError(t, store.CreateArticle(&models.Article{ID: "ar-1", TitleEn: "One", AuthorID: "doc-1"}))
	require.NoError(t, store.CreateArticle(&models.Article{ID: "ar-2", TitleEn: "Two", AuthorID: "doc-1"}))

	remoteMock := mocks.NewMockRemoteArticles(ctrl)
	remoteMock.EXPECT().UpsertArticle(gomock.Any(), "ar-1", gomock.Any()).Return(false, errors.New("boom")).AnyTimes()
	remoteMock.EXPECT().UpsertArticle(gomock.Any(), "ar-2", gomock.Any()).Return(false, nil).AnyTimes()

	e := NewArticleEngine(store, remoteMock, onlineProber(ctrl), time.Minute, testLogger())
	res, err := e.Push(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "ar-1", res.Errors[0].ID)
}

func TestArticleSyncInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := testDB(t)

	e := NewArticleEngine(store, mocks.NewMockRemoteArticles(ctrl), onlineProber(ctrl), time.Minute, testLogger())
	e.inFlight.Lock()
	defer e.inFlight.Unlock()

	_, err := e.Pull(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrSyncInFlight)
	_, err = e.Push(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrSyncInFlight)
}
