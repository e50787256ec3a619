package ports

import (
	"context"
	"time"

	"github.com/coreapp/accounts-api/internal/core/domain"
)

// ListFilter narrows and pages a user listing. Search matches a substring
// of email, username, first or last name. Results are ordered by
// joined_date descending.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// UserRepository defines the interface for user persistence. Create relies
// on the storage layer's unique indexes to serialize racing inserts: at
// most one of two identical registrations succeeds, the loser observes
// domain.ErrEmailTaken or domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter ListFilter) ([]*domain.User, error)
}
