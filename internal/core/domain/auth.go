package domain

// TokenClaims are the claims carried by an API bearer token.
type TokenClaims struct {
	Subject   string `json:"subject"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// TokenRequest is the body of a token-mint request.
type TokenRequest struct {
	ClientID string `json:"client_id"`
	APIKey   string `json:"api_key"`
}

// TokenResponse carries a freshly minted bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
