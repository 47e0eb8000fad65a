package reporthttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cantiere-erp/cantiere-erp/internal/analytics"
	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

type stubService struct {
	data    analytics.AnalyticsData
	err     error
	filters analytics.AnalyticsFilters
}

func (s *stubService) GetAnalyticsData(ctx context.Context, tenantID uuid.UUID, filters analytics.AnalyticsFilters) (analytics.AnalyticsData, error) {
	s.filters = filters
	return s.data, s.err
}

func newTestRouter(service *stubService) http.Handler {
	handler := NewHandler(slog.Default(), service).WithNow(func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	})
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func authedRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(shared.ContextWithTenant(req.Context(), uuid.New()))
}

func TestHandleAnalyticsOK(t *testing.T) {
	service := &stubService{data: analytics.EmptyAnalyticsData()}
	router := newTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "/report/analytics?date_from=2025-06-01&date_to=2025-06-30"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body analytics.AnalyticsData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Alerts)
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), service.filters.DateFrom)
}

func TestHandleAnalyticsDefaultsToCurrentMonth(t *testing.T) {
	service := &stubService{data: analytics.EmptyAnalyticsData()}
	router := newTestRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "/report/analytics"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), service.filters.DateFrom)
	require.Equal(t, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), service.filters.DateTo)
}

func TestHandleAnalyticsBadFilters(t *testing.T) {
	router := newTestRouter(&stubService{data: analytics.EmptyAnalyticsData()})

	for _, target := range []string{
		"/report/analytics?date_from=not-a-date",
		"/report/analytics?cliente_id=not-a-uuid",
		"/report/analytics?date_from=2025-06-30&date_to=2025-06-01",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, target))
		require.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestHandleAnalyticsUnauthenticated(t *testing.T) {
	router := newTestRouter(&stubService{data: analytics.EmptyAnalyticsData()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/analytics", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAnalyticsFilterPassthrough(t *testing.T) {
	service := &stubService{data: analytics.EmptyAnalyticsData()}
	router := newTestRouter(service)

	clientID := uuid.New()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "/report/analytics?cliente_id="+clientID.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.filters.ClientID)
	require.Equal(t, clientID, *service.filters.ClientID)
}

func TestHandleExportCSV(t *testing.T) {
	router := newTestRouter(&stubService{data: analytics.EmptyAnalyticsData()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "/report/analytics/export.csv"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Body.String(), "Indicatore")
}

func TestHandleExportXLSX(t *testing.T) {
	router := newTestRouter(&stubService{data: analytics.EmptyAnalyticsData()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "/report/analytics/export.xlsx"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	require.NotZero(t, rec.Body.Len())
}
