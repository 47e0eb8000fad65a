// Package auth resolves API callers to tenants.
//
// Clients authenticate with an opaque key of the form "<key id>.<secret>";
// the secret is stored as a bcrypt hash and never leaves the database.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

// CredentialSource abstracts credential lookup for the service.
type CredentialSource interface {
	Credential(ctx context.Context, keyID uuid.UUID) (Credential, error)
}

// Service verifies API keys against stored bcrypt hashes.
type Service struct {
	repo CredentialSource
}

// NewService constructs the auth service.
func NewService(repo CredentialSource) *Service {
	return &Service{repo: repo}
}

// Authenticate parses an API key and returns the owning tenant id.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (uuid.UUID, error) {
	if s == nil || s.repo == nil {
		return uuid.Nil, errors.New("auth: service not configured")
	}
	keyID, secret, ok := splitKey(apiKey)
	if !ok {
		return uuid.Nil, shared.ErrUnauthenticated
	}
	cred, err := s.repo.Credential(ctx, keyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.ErrUnauthenticated
		}
		return uuid.Nil, err
	}
	if !cred.Active {
		return uuid.Nil, shared.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.SecretHash), []byte(secret)); err != nil {
		return uuid.Nil, shared.ErrUnauthenticated
	}
	return cred.TenantID, nil
}

func splitKey(apiKey string) (uuid.UUID, string, bool) {
	idPart, secret, found := strings.Cut(strings.TrimSpace(apiKey), ".")
	if !found || secret == "" {
		return uuid.Nil, "", false
	}
	keyID, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", false
	}
	return keyID, secret, true
}
