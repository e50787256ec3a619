package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coreapp/accounts-api/internal/core/domain"
	"github.com/coreapp/accounts-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:           "user-1",
		Email:        "foobar@example.com",
		Username:     "foobar",
		PasswordHash: "$2a$10$secret",
		JoinedDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	}
}

func samplePair() *ports.TokenPair {
	return &ports.TokenPair{AccessToken: "access123", RefreshToken: "refresh456"}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			if input.Username != "foobar" || input.Email != "foobar@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return sampleUser(), samplePair(), nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/register",
		`{"username":"foobar","email":"foobar@example.com","password":"somepassword"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "foobar" || user["email"] != "foobar@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if user["is_active"] != true {
		t.Fatalf("expected is_active true, got %+v", user)
	}
	if resp["access_token"] != "access123" || resp["refresh_token"] != "refresh456" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("response leaks credential material: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_FieldErrors(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			return nil, nil, domain.FieldErrors{"password": "must be at least 12 characters"}
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/register",
		`{"username":"foobar","email":"foobar@example.com","password":"pass"}`)

	err := handler.Register(c)

	var fieldErrs domain.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fieldErrs["password"] != "must be at least 12 characters" {
		t.Fatalf("unexpected field errors: %v", fieldErrs)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/register", "not-json")

	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
			if email != "foobar@example.com" || password != "somepassword" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return sampleUser(), samplePair(), nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/login",
		`{"email":"foobar@example.com","password":"somepassword"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "access123" || resp["refresh_token"] != "refresh456" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"foobar@example.com"}`)

	err := handler.Login(c)

	var fieldErrs domain.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fieldErrs["password"]; !ok {
		t.Fatalf("expected password error, got %v", fieldErrs)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/login",
		`{"email":"foobar@example.com","password":"wrongpassword"}`)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
			if refreshToken != "refresh456" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return sampleUser(), &ports.TokenPair{AccessToken: "access789", RefreshToken: "refresh789"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"refresh456"}`)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "refresh789") {
		t.Fatalf("expected rotated tokens in response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
			return nil, nil, domain.ErrInvalidToken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"expired"}`)

	if err := handler.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
