package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dialdirectory/web/internal/form"
	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceImpl implements AuthService with bcrypt password hashes.
type AuthServiceImpl struct {
	userRepo       repository.UserRepository
	staffUsernames map[string]bool
	cost           int
	// dummyHash is compared against when the username is unknown so both
	// paths spend the same bcrypt time.
	dummyHash []byte
}

// NewAuthService creates an AuthService. staffUsernames are matched
// case-insensitively at registration.
func NewAuthService(userRepo repository.UserRepository, staffUsernames []string) *AuthServiceImpl {
	return newAuthService(userRepo, staffUsernames, bcrypt.DefaultCost)
}

func newAuthService(userRepo repository.UserRepository, staffUsernames []string, cost int) *AuthServiceImpl {
	staff := make(map[string]bool, len(staffUsernames))
	for _, u := range staffUsernames {
		staff[strings.ToLower(u)] = true
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dial-dummy-password"), cost)
	return &AuthServiceImpl{userRepo: userRepo, staffUsernames: staff, cost: cost, dummyHash: dummy}
}

var _ AuthService = (*AuthServiceImpl)(nil)

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	return s.CreateUser(ctx, username, email, password, s.staffUsernames[strings.ToLower(username)])
}

func (s *AuthServiceImpl) CreateUser(ctx context.Context, username, email, password string, staff bool) (*model.User, error) {
	if len(password) < form.MinPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if len(password) > form.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameConflict) {
			return nil, ErrUsernameTaken
		}
		slog.Error("create user failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("new user created", "user_id", u.ID, "is_staff", u.IsStaff)
	return u, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		slog.Debug("password mismatch", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthServiceImpl) SetStaff(ctx context.Context, username string, staff bool) error {
	if err := s.userRepo.SetStaff(ctx, username, staff); err != nil {
		return err
	}
	slog.Info("staff flag changed", "username", username, "is_staff", staff)
	return nil
}
