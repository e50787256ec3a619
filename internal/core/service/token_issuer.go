package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coreapp/accounts-api/internal/core/domain"
	"github.com/coreapp/accounts-api/internal/core/ports"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenClaims are the claims carried by both token types. TokenType
// prevents a refresh token from being replayed as an access token and
// vice versa.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
}

// TokenIssuer signs and verifies HS256 token pairs. Lifetimes are fixed at
// construction time from configuration.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// RefreshTTL reports the refresh token lifetime, used as the allowlist TTL.
func (t *TokenIssuer) RefreshTTL() time.Duration {
	return t.refreshTTL
}

// Pair issues an access/refresh token pair for the user and returns the
// refresh token's ID so the caller can allowlist it.
func (t *TokenIssuer) Pair(user *domain.User) (*ports.TokenPair, string, error) {
	access, _, err := t.sign(user, TokenTypeAccess, t.accessTTL)
	if err != nil {
		return nil, "", err
	}
	refresh, refreshID, err := t.sign(user, TokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return nil, "", err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, refreshID, nil
}

// Parse verifies signature, expiry and token type, returning the claims.
func (t *TokenIssuer) Parse(tokenString, wantType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (t *TokenIssuer) sign(user *domain.User, tokenType string, ttl time.Duration) (string, string, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenType:   tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}
	return signed, id, nil
}
