package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	reporthttp "github.com/cantiere-erp/cantiere-erp/internal/analytics/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthMiddleware func(http.Handler) http.Handler
	ReportHandler  *reporthttp.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		if params.AuthMiddleware != nil {
			api.Use(params.AuthMiddleware)
		}
		if params.ReportHandler != nil {
			params.ReportHandler.MountRoutes(api)
		}
	})

	return r
}
