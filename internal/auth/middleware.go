package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cantiere-erp/cantiere-erp/internal/platform/httpx"
	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

const apiKeyHeader = "X-API-Key"

// Middleware authenticates requests and stores the tenant id in the context.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := service.Authenticate(r.Context(), r.Header.Get(apiKeyHeader))
			if err != nil {
				if !errors.Is(err, shared.ErrUnauthenticated) && logger != nil {
					logger.Error("authenticate", slog.Any("error", err))
				}
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithTenant(r.Context(), tenantID)))
		})
	}
}
