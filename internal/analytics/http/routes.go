package reporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

// MountRoutes registers the report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/report/analytics", h.handleAnalytics)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/report/analytics/export.csv", h.handleExportCSV)
		gr.Get("/report/analytics/export.xlsx", h.handleExportXLSX)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if tenantID, ok := shared.TenantFromContext(r.Context()); ok {
		return "tenant:" + tenantID.String(), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
