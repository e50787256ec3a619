package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/coreapp/accounts-api/internal/core/domain"
	"github.com/coreapp/accounts-api/internal/core/ports"
)

const (
	emailMaxLen    = 128
	usernameMaxLen = 20
	passwordMinLen = 12
	passwordMaxLen = 128
)

// AuthService implements registration, login and token refresh.
type AuthService struct {
	accounts ports.AccountService
	repo     ports.UserRepository
	tokens   *TokenIssuer
	refresh  ports.RefreshTokenStore
	validate *validator.Validate
}

func NewAuthService(accounts ports.AccountService, repo ports.UserRepository, tokens *TokenIssuer, refresh ports.RefreshTokenStore) *AuthService {
	return &AuthService{
		accounts: accounts,
		repo:     repo,
		tokens:   tokens,
		refresh:  refresh,
		validate: validator.New(),
	}
}

// Register validates the payload, collecting every field error before
// reporting, then creates the user and issues a token pair. No row is
// written unless the whole payload passes.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
	fieldErrs, err := s.validateRegistration(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if len(fieldErrs) > 0 {
		return nil, nil, fieldErrs
	}

	user, err := s.accounts.CreateUser(ctx, ports.CreateUserInput{
		Email:     input.Email,
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		// A racing registration can still lose at the unique index even
		// though the lookups above came back clean.
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, nil, domain.FieldErrors{"email": "already exists"}
		case errors.Is(err, domain.ErrUsernameTaken):
			return nil, nil, domain.FieldErrors{"username": "already exists"}
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login exchanges verified credentials for a token pair. Unknown email,
// inactive account and wrong password all collapse to
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, err
	}
	user.LastLogin = &now

	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token must verify, still
// be allowlisted, and belong to an active user. The old token is revoked
// before the new pair is returned.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	userID, err := s.refresh.UserID(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if userID == "" || userID != claims.Subject {
		return nil, nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidToken
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrInvalidToken
	}

	if err := s.refresh.Delete(ctx, claims.ID); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	pair, refreshID, err := s.tokens.Pair(user)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, refreshID, user.ID, s.tokens.RefreshTTL()); err != nil {
		return nil, err
	}
	return pair, nil
}

// validateRegistration runs every field check and the uniqueness lookups,
// returning the accumulated field errors. Only storage faults abort early.
func (s *AuthService) validateRegistration(ctx context.Context, input ports.RegisterInput) (domain.FieldErrors, error) {
	fieldErrs := domain.FieldErrors{}

	switch {
	case input.Email == "":
		fieldErrs.Set("email", "must provide an email")
	case utf8.RuneCountInString(input.Email) > emailMaxLen:
		fieldErrs.Set("email", "must be at most 128 characters")
	case s.validate.Var(input.Email, "email") != nil:
		fieldErrs.Set("email", "must be a valid email address")
	default:
		taken, err := s.emailTaken(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs.Set("email", "already exists")
		}
	}

	switch {
	case input.Username == "":
		fieldErrs.Set("username", "must provide a username")
	case utf8.RuneCountInString(input.Username) > usernameMaxLen:
		fieldErrs.Set("username", "must be at most 20 characters")
	default:
		taken, err := s.usernameTaken(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs.Set("username", "already exists")
		}
	}

	switch {
	case input.Password == "":
		fieldErrs.Set("password", "must provide a password")
	case utf8.RuneCountInString(input.Password) < passwordMinLen:
		fieldErrs.Set("password", "must be at least 12 characters")
	case utf8.RuneCountInString(input.Password) > passwordMaxLen:
		fieldErrs.Set("password", "must be at most 128 characters")
	}

	return fieldErrs, nil
}

func (s *AuthService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

func (s *AuthService) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}
