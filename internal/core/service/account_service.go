package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/coreapp/accounts-api/internal/core/domain"
	"github.com/coreapp/accounts-api/internal/core/ports"
)

// AccountService is the sole authority for constructing user rows. All
// accounts enter the system through CreateUser or CreateSuperuser.
type AccountService struct {
	repo ports.UserRepository
}

func NewAccountService(repo ports.UserRepository) *AccountService {
	return &AccountService{repo: repo}
}

// CreateUser hashes the password, normalizes the email and persists a new
// active user. Missing required fields are reported per field; identity
// collisions surface as domain.ErrEmailTaken or domain.ErrUsernameTaken
// from the repository.
func (s *AccountService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	fieldErrs := domain.FieldErrors{}
	if input.Email == "" {
		fieldErrs.Set("email", "must provide an email")
	}
	if input.Username == "" {
		fieldErrs.Set("username", "must provide a username")
	}
	if input.Password == "" {
		fieldErrs.Set("password", "must provide a password")
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        domain.NormalizeEmail(input.Email),
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		JoinedDate:   time.Now().UTC(),
		IsActive:     true,
		IsStaff:      boolValue(input.IsStaff),
		IsSuperuser:  boolValue(input.IsSuperuser),
	}

	return s.repo.Create(ctx, user)
}

// CreateSuperuser defaults is_staff and is_superuser to true and delegates
// to CreateUser. Explicitly passing either flag as false is a
// contradictory request and fails before anything is written.
func (s *AccountService) CreateSuperuser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	fieldErrs := domain.FieldErrors{}
	if input.IsStaff != nil && !*input.IsStaff {
		fieldErrs.Set("is_staff", "superuser must be assigned is_staff=true")
	}
	if input.IsSuperuser != nil && !*input.IsSuperuser {
		fieldErrs.Set("is_superuser", "superuser must be assigned is_superuser=true")
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	truth := true
	input.IsStaff = &truth
	input.IsSuperuser = &truth

	return s.CreateUser(ctx, input)
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
