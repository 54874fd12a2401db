package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// fakeAuthAdapter is a deterministic stand-in for the bcrypt/JWT adapter.
type fakeAuthAdapter struct {
	parseErr error
}

func (f *fakeAuthAdapter) HashAPIKey(key string) (string, error) {
	return "hash:" + key, nil
}

func (f *fakeAuthAdapter) VerifyAPIKey(key, hash string) bool {
	return hash == "hash:"+key
}

func (f *fakeAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	return "token:" + claims.Subject, nil
}

func (f *fakeAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	if len(token) < 7 || token[:6] != "token:" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{Subject: token[6:]}, nil
}

func createTestAuth(t *testing.T) (*Auth, *fakeAuthAdapter) {
	t.Helper()
	adapter := &fakeAuthAdapter{}
	auth := NewAuth(AuthConfig{
		Adapter: adapter,
		Clients: []APIClient{{ClientID: "mobile-app", KeyHash: "hash:secret"}},
	})
	return auth, adapter
}

func TestMintToken(t *testing.T) {
	auth, _ := createTestAuth(t)

	resp, err := auth.MintToken(context.Background(), domain.TokenRequest{
		ClientID: "mobile-app",
		APIKey:   "secret",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if resp.Token != "token:mobile-app" {
		t.Errorf("unexpected token %q", resp.Token)
	}
	if resp.ExpiresAt == 0 {
		t.Error("expected expiry to be set")
	}
}

func TestMintToken_BadKey(t *testing.T) {
	auth, _ := createTestAuth(t)

	cases := []struct {
		name string
		req  domain.TokenRequest
	}{
		{"wrong key", domain.TokenRequest{ClientID: "mobile-app", APIKey: "nope"}},
		{"unknown client", domain.TokenRequest{ClientID: "ghost", APIKey: "secret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := auth.MintToken(context.Background(), tc.req); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	auth, _ := createTestAuth(t)

	claims, err := auth.ValidateToken(context.Background(), "token:mobile-app")
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Subject != "mobile-app" {
		t.Errorf("unexpected subject %q", claims.Subject)
	}
}

func TestValidateToken_UnknownSubject(t *testing.T) {
	auth, _ := createTestAuth(t)

	// Token parses but its subject is no longer a configured client
	if _, err := auth.ValidateToken(context.Background(), "token:revoked"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	auth, adapter := createTestAuth(t)
	adapter.parseErr = domain.ErrTokenExpired

	if _, err := auth.ValidateToken(context.Background(), "token:mobile-app"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
