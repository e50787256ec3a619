package handler

import "github.com/coreapp/accounts-api/internal/core/domain"

// Field constraints on registerRequest are enforced by the auth service,
// which collects every violation in one pass instead of short-circuiting.
type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type authResponse struct {
	User         *domain.PublicUser `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
}

type listUsersResponse struct {
	Users []*domain.PublicUser `json:"users"`
}
