package service

import (
	"context"

	"github.com/dialdirectory/web/internal/model"
)

// AuthService handles password accounts.
type AuthService interface {
	// Register creates a regular account. Usernames listed in
	// STAFF_USERNAMES are created as staff.
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	// Authenticate returns the user for a matching username and password,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	// CreateUser creates an account with an explicit staff flag.
	CreateUser(ctx context.Context, username, email, password string, staff bool) (*model.User, error)
	// SetStaff grants or revokes staff access.
	SetStaff(ctx context.Context, username string, staff bool) error
}
