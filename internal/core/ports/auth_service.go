package ports

import (
	"context"

	"github.com/coreapp/accounts-api/internal/core/domain"
)

// RegisterInput is an untrusted registration payload.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair is a signed access token plus a signed refresh token, both
// bound to the authenticated user's identity.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error)
}
