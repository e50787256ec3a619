package service

import (
	"errors"
	"testing"
	"time"

	"github.com/coreapp/accounts-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "user-1",
		Email:    "alice@example.com",
		Username: "alice",
		IsActive: true,
		IsStaff:  true,
	}
}

func TestTokenIssuer_Pair(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)

	pair, refreshID, err := issuer.Pair(testUser())
	if err != nil {
		t.Fatalf("Pair returned error: %v", err)
	}
	if refreshID == "" {
		t.Fatalf("expected refresh token ID")
	}

	access, err := issuer.Parse(pair.AccessToken, TokenTypeAccess)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if access.Subject != "user-1" || access.Email != "alice@example.com" || !access.IsStaff {
		t.Fatalf("unexpected access claims: %+v", access)
	}

	refresh, err := issuer.Parse(pair.RefreshToken, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
	if refresh.ID != refreshID {
		t.Fatalf("refresh ID mismatch: %s != %s", refresh.ID, refreshID)
	}
}

func TestTokenIssuer_Parse_WrongType(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)

	pair, _, err := issuer.Pair(testUser())
	if err != nil {
		t.Fatalf("Pair returned error: %v", err)
	}

	if _, err := issuer.Parse(pair.AccessToken, TokenTypeRefresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := issuer.Parse(pair.RefreshToken, TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Parse_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour, 24*time.Hour)

	pair, _, err := issuer.Pair(testUser())
	if err != nil {
		t.Fatalf("Pair returned error: %v", err)
	}

	if _, err := other.Parse(pair.AccessToken, TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Parse_Expired(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("secret"), accessTTL: -time.Minute, refreshTTL: 24 * time.Hour}

	pair, _, err := issuer.Pair(testUser())
	if err != nil {
		t.Fatalf("Pair returned error: %v", err)
	}

	if _, err := issuer.Parse(pair.AccessToken, TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
