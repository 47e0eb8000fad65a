// Package reporthttp exposes the analytics report over JSON and export
// endpoints.
package reporthttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cantiere-erp/cantiere-erp/internal/analytics"
	"github.com/cantiere-erp/cantiere-erp/internal/analytics/export"
	"github.com/cantiere-erp/cantiere-erp/internal/platform/httpx"
	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

// AnalyticsService is the assembler surface the handlers depend on.
type AnalyticsService interface {
	GetAnalyticsData(ctx context.Context, tenantID uuid.UUID, filters analytics.AnalyticsFilters) (analytics.AnalyticsData, error)
}

// Handler serves the analytics report endpoints.
type Handler struct {
	logger   *slog.Logger
	service  AnalyticsService
	validate *validator.Validate
	now      func() time.Time
}

// NewHandler constructs the report handler.
func NewHandler(logger *slog.Logger, service AnalyticsService) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the clock used for default date ranges, for tests.
func (h *Handler) WithNow(fn func() time.Time) *Handler {
	if fn != nil {
		h.now = fn
	}
	return h
}

type filterForm struct {
	DateFrom   string `validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `validate:"omitempty,datetime=2006-01-02"`
	ClientID   string `validate:"omitempty,uuid"`
	ProjectID  string `validate:"omitempty,uuid"`
	EmployeeID string `validate:"omitempty,uuid"`
}

// parseFilters reads the query parameters, defaulting the range to the
// current calendar month when omitted.
func (h *Handler) parseFilters(r *http.Request) (analytics.AnalyticsFilters, error) {
	q := r.URL.Query()
	form := filterForm{
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		ClientID:   q.Get("cliente_id"),
		ProjectID:  q.Get("commessa_id"),
		EmployeeID: q.Get("dipendente_id"),
	}
	if err := h.validate.Struct(form); err != nil {
		return analytics.AnalyticsFilters{}, fmt.Errorf("%w: %v", shared.ErrInvalidFilters, err)
	}

	now := h.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	filters := analytics.AnalyticsFilters{DateFrom: monthStart, DateTo: monthEnd}
	if form.DateFrom != "" {
		from, err := time.Parse("2006-01-02", form.DateFrom)
		if err != nil {
			return analytics.AnalyticsFilters{}, fmt.Errorf("%w: date_from", shared.ErrInvalidFilters)
		}
		filters.DateFrom = from
	}
	if form.DateTo != "" {
		to, err := time.Parse("2006-01-02", form.DateTo)
		if err != nil {
			return analytics.AnalyticsFilters{}, fmt.Errorf("%w: date_to", shared.ErrInvalidFilters)
		}
		filters.DateTo = to
	}
	if filters.DateTo.Before(filters.DateFrom) {
		return analytics.AnalyticsFilters{}, fmt.Errorf("%w: date_to before date_from", shared.ErrInvalidFilters)
	}

	if form.ClientID != "" {
		id := uuid.MustParse(form.ClientID)
		filters.ClientID = &id
	}
	if form.ProjectID != "" {
		id := uuid.MustParse(form.ProjectID)
		filters.ProjectID = &id
	}
	if form.EmployeeID != "" {
		id := uuid.MustParse(form.EmployeeID)
		filters.EmployeeID = &id
	}
	return filters, nil
}

func (h *Handler) loadData(r *http.Request) (analytics.AnalyticsData, error) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		return analytics.AnalyticsData{}, shared.ErrUnauthenticated
	}
	filters, err := h.parseFilters(r)
	if err != nil {
		return analytics.AnalyticsData{}, err
	}
	return h.service.GetAnalyticsData(r.Context(), tenantID, filters)
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadData(r)
	if err != nil {
		h.respondError(w, "analytics", err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadData(r)
	if err != nil {
		h.respondError(w, "export csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report-analytics.csv"`)
	if err := export.WriteCSV(w, data); err != nil && h.logger != nil {
		h.logger.Error("write csv export", slog.Any("error", err))
	}
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadData(r)
	if err != nil {
		h.respondError(w, "export xlsx", err)
		return
	}
	workbook, err := export.BuildWorkbook(data)
	if err != nil {
		h.respondError(w, "export xlsx", err)
		return
	}
	defer func() { _ = workbook.Close() }()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report-analytics.xlsx"`)
	if err := workbook.Write(w); err != nil && h.logger != nil {
		h.logger.Error("write xlsx export", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
