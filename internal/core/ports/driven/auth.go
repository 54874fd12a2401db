package driven

import "github.com/campus-labs/studysync-core/internal/core/domain"

// AuthAdapter handles API-key hashing and bearer-token operations.
type AuthAdapter interface {
	// HashAPIKey generates a hash suitable for at-rest storage
	HashAPIKey(key string) (string, error)

	// VerifyAPIKey checks a presented key against a stored hash
	VerifyAPIKey(key, hash string) bool

	// GenerateToken creates a signed bearer token from claims
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a bearer token and extracts claims
	ParseToken(token string) (*domain.TokenClaims, error)
}
