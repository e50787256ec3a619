package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already exists")
var ErrUsernameTaken = errors.New("username already exists")
var ErrInvalidToken = errors.New("invalid token")

// FieldErrors maps a field name to the reason it was rejected. All field
// checks run to completion before a FieldErrors is returned, so the client
// sees every problem at once.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fe))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// Set records a message for a field unless one is already present, so the
// first (most specific) failure per field wins.
func (fe FieldErrors) Set(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}
