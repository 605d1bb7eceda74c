// internal/server/handlers/analytics_test.go

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorpulse/internal/adapter/storage"
	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

type stubEngine struct {
	lastPlatforms       []string
	lastSpec            metrics.PeriodSpec
	lastIncludePrevious bool

	report *metrics.ComparativeReport
	err    error
}

func (s *stubEngine) ComputeAccountAnalytics(_ context.Context, account author.SocialAccount, current metrics.Window, _ *metrics.Window) (*metrics.AccountAnalytics, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &metrics.AccountAnalytics{AccountID: account.ID, Platform: account.Platform}, nil
}

func (s *stubEngine) ComputeComparativeAnalytics(_ context.Context, platforms []string, spec metrics.PeriodSpec, includePrevious bool) (*metrics.ComparativeReport, error) {
	s.lastPlatforms = platforms
	s.lastSpec = spec
	s.lastIncludePrevious = includePrevious
	if s.err != nil {
		return nil, s.err
	}
	if s.report != nil {
		return s.report, nil
	}
	return &metrics.ComparativeReport{Platforms: map[string]metrics.PlatformReport{}}, nil
}

type stubAuthorStore struct {
	account *author.SocialAccount
}

func (s *stubAuthorStore) CreateAuthor(context.Context, string) (*author.Author, error) {
	return nil, nil
}
func (s *stubAuthorStore) ListAuthors(context.Context) ([]author.Author, error) { return nil, nil }
func (s *stubAuthorStore) GetAuthor(context.Context, int64) (*author.Author, error) {
	return nil, storage.ErrNotFound
}
func (s *stubAuthorStore) UpdateAuthor(context.Context, int64, string) (*author.Author, error) {
	return nil, storage.ErrNotFound
}
func (s *stubAuthorStore) DeleteAuthor(context.Context, int64) error { return storage.ErrNotFound }
func (s *stubAuthorStore) CreateAccount(context.Context, author.SocialAccount) (*author.SocialAccount, error) {
	return nil, nil
}
func (s *stubAuthorStore) ListAccounts(context.Context, string) ([]author.SocialAccount, error) {
	return nil, nil
}
func (s *stubAuthorStore) GetAccount(context.Context, int64) (*author.SocialAccount, error) {
	if s.account == nil {
		return nil, storage.ErrNotFound
	}
	return s.account, nil
}
func (s *stubAuthorStore) UpdateAccount(context.Context, author.SocialAccount) (*author.SocialAccount, error) {
	return nil, storage.ErrNotFound
}
func (s *stubAuthorStore) DeleteAccount(context.Context, int64) error { return storage.ErrNotFound }

func analyticsRouter(engine *stubEngine, store *stubAuthorStore) *chi.Mux {
	h := NewAnalyticsHandler(engine, store, "30d")
	r := chi.NewRouter()
	r.Get("/analytics/comparative", h.GetComparativeAnalytics)
	r.Get("/analytics/{id}", h.GetAccountAnalytics)
	return r
}

func TestComparativeRequiresPlatforms(t *testing.T) {
	router := analyticsRouter(&stubEngine{}, &stubAuthorStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/comparative", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComparativeRejectsUnknownPlatform(t *testing.T) {
	router := analyticsRouter(&stubEngine{}, &stubAuthorStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/comparative?platforms=tiktok,myspace", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComparativePassesParams(t *testing.T) {
	engine := &stubEngine{}
	router := analyticsRouter(engine, &stubAuthorStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/analytics/comparative?platforms=tiktok,instagram&period=90d&include_previous=false", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tiktok", "instagram"}, engine.lastPlatforms)
	assert.Equal(t, "90d", engine.lastSpec.Token)
	assert.False(t, engine.lastIncludePrevious)
}

func TestComparativeParsesExplicitDates(t *testing.T) {
	engine := &stubEngine{}
	router := analyticsRouter(engine, &stubAuthorStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/analytics/comparative?platforms=tiktok&start_date=2025-01-01&end_date=2025-01-31", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, engine.lastSpec.Start)
	require.NotNil(t, engine.lastSpec.End)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), *engine.lastSpec.Start)
	assert.True(t, engine.lastIncludePrevious)
}

func TestComparativeDefaultPeriod(t *testing.T) {
	engine := &stubEngine{}
	router := analyticsRouter(engine, &stubAuthorStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/comparative?platforms=tiktok", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30d", engine.lastSpec.Token)
}

func TestAccountAnalyticsUnknownAccount(t *testing.T) {
	router := analyticsRouter(&stubEngine{}, &stubAuthorStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/analytics/42?current_start=2025-03-01&current_end=2025-03-30", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountAnalyticsRequiresWindow(t *testing.T) {
	store := &stubAuthorStore{account: &author.SocialAccount{ID: 42, Platform: author.PlatformTikTok}}
	router := analyticsRouter(&stubEngine{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/42", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountAnalyticsOK(t *testing.T) {
	store := &stubAuthorStore{account: &author.SocialAccount{ID: 42, Platform: author.PlatformTikTok}}
	router := analyticsRouter(&stubEngine{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/analytics/42?current_start=2025-03-01&current_end=2025-03-30", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
