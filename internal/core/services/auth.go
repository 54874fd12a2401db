package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// APIClient is a configured API consumer: a client ID paired with the
// bcrypt hash of its key. Clients come from configuration, not storage.
type APIClient struct {
	ClientID string
	KeyHash  string
}

// Auth implements the driving AuthService: it exchanges configured API
// keys for signed bearer tokens.
type Auth struct {
	adapter  driven.AuthAdapter
	clients  map[string]string // client ID -> key hash
	tokenTTL time.Duration
	logger   *slog.Logger
}

// AuthConfig holds dependencies for the auth service.
type AuthConfig struct {
	Adapter  driven.AuthAdapter
	Clients  []APIClient
	TokenTTL time.Duration // default 1h
	Logger   *slog.Logger
}

// NewAuth creates a new auth service.
func NewAuth(cfg AuthConfig) *Auth {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	clients := make(map[string]string, len(cfg.Clients))
	for _, c := range cfg.Clients {
		clients[c.ClientID] = c.KeyHash
	}
	return &Auth{
		adapter:  cfg.Adapter,
		clients:  clients,
		tokenTTL: ttl,
		logger:   logger,
	}
}

// MintToken exchanges a client ID and API key for a bearer token.
func (a *Auth) MintToken(ctx context.Context, req domain.TokenRequest) (*domain.TokenResponse, error) {
	hash, ok := a.clients[req.ClientID]
	if !ok || !a.adapter.VerifyAPIKey(req.APIKey, hash) {
		a.logger.Warn("token mint rejected", "client_id", req.ClientID)
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	claims := &domain.TokenClaims{
		Subject:   req.ClientID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(a.tokenTTL).Unix(),
	}
	token, err := a.adapter.GenerateToken(claims)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &domain.TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// ValidateToken checks a bearer token and returns its claims.
func (a *Auth) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := a.adapter.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if _, ok := a.clients[claims.Subject]; !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
