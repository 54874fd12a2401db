package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// MinCost keeps the hashing tests fast.
func newTestAdapter() *Adapter {
	return NewAdapterWithCost("test-secret", bcrypt.MinCost)
}

func testClaims(ttl time.Duration) *domain.TokenClaims {
	now := time.Now()
	return &domain.TokenClaims{
		Subject:   "studysync-android",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

func TestHashAPIKey_RoundTrip(t *testing.T) {
	adapter := newTestAdapter()

	hash, err := adapter.HashAPIKey("super-secret-key")
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	if hash == "super-secret-key" {
		t.Error("hash must not equal the plaintext key")
	}

	if !adapter.VerifyAPIKey("super-secret-key", hash) {
		t.Error("expected correct key to verify")
	}
	if adapter.VerifyAPIKey("wrong-key", hash) {
		t.Error("expected wrong key to fail verification")
	}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	adapter := newTestAdapter()
	claims := testClaims(time.Hour)

	token, err := adapter.GenerateToken(claims)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	parsed, err := adapter.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if parsed.Subject != claims.Subject {
		t.Errorf("expected subject %q, got %q", claims.Subject, parsed.Subject)
	}
	if parsed.ExpiresAt != claims.ExpiresAt {
		t.Errorf("expected expiry %d, got %d", claims.ExpiresAt, parsed.ExpiresAt)
	}
}

func TestParseToken_Expired(t *testing.T) {
	adapter := newTestAdapter()

	token, err := adapter.GenerateToken(testClaims(-time.Hour))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = adapter.ParseToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	adapter := newTestAdapter()
	other := NewAdapterWithCost("other-secret", bcrypt.MinCost)

	token, err := adapter.GenerateToken(testClaims(time.Hour))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = other.ParseToken(token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	adapter := newTestAdapter()

	_, err := adapter.ParseToken("not-a-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
