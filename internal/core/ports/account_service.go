package ports

import (
	"context"

	"github.com/coreapp/accounts-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted by the account creation
// paths. The permission flags are pointers so an explicitly supplied false
// is distinguishable from an absent value; CreateSuperuser depends on
// that. is_active is not an input: the user creation path always activates
// the account.
type CreateUserInput struct {
	Email       string
	Username    string
	Password    string
	FirstName   string
	LastName    string
	IsStaff     *bool
	IsSuperuser *bool
}

// AccountService owns the two permitted user creation paths.
type AccountService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	CreateSuperuser(ctx context.Context, input CreateUserInput) (*domain.User, error)
}
