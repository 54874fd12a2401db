package driving

import (
	"context"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// AuthService mints and validates API bearer tokens.
type AuthService interface {
	// MintToken exchanges a client ID and API key for a bearer token.
	MintToken(ctx context.Context, req domain.TokenRequest) (*domain.TokenResponse, error)

	// ValidateToken checks a bearer token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
