package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

// Credential carries the stored secret hash for one API key.
type Credential struct {
	TenantID   uuid.UUID
	SecretHash string
	Active     bool
}

// Repository looks up API credentials in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Credential resolves an API key id to its stored credential.
func (r *Repository) Credential(ctx context.Context, keyID uuid.UUID) (Credential, error) {
	if r == nil || r.pool == nil {
		return Credential{}, fmt.Errorf("auth repo not initialised")
	}
	const query = `
SELECT tenant_id, secret_hash, active
FROM tenant_api_keys
WHERE id = $1`
	var cred Credential
	if err := r.pool.QueryRow(ctx, query, keyID).Scan(&cred.TenantID, &cred.SecretHash, &cred.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, shared.ErrNotFound
		}
		return Credential{}, err
	}
	return cred, nil
}
