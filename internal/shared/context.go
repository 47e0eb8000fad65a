package shared

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const tenantContextKey contextKey = "tenant_id"

// ContextWithTenant stores the resolved tenant id in the context.
func ContextWithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenantID)
}

// TenantFromContext retrieves the tenant id set by the auth middleware.
func TenantFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantContextKey).(uuid.UUID)
	return id, ok
}
