package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	model "request-logger/internal/models"
	"request-logger/internal/repository"
	"request-logger/internal/usererrors"
	"request-logger/utils"
)

const minPasswordLength = 8

// UserService defines the business logic for user accounts
type UserService struct {
	repo repository.UserDB
	cost int
}

// NewUserService creates a new UserService instance
func NewUserService(repo repository.UserDB) *UserService {
	return &UserService{
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

// RegisterUser validates input, hashes the password and stores the user
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (model.User, error) {
	if err := validateUser(name, email, password); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}

	user := model.User{
		UserID:       utils.GenerateID(),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("service: failed to create user %s: %w", user.Email, err)
	}

	return user, nil
}

// validateUser checks input validity for registration
func validateUser(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("service: %w - missing name", usererrors.ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("service: %w - malformed email", usererrors.ErrInvalidUser)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("service: %w - password shorter than %d characters", usererrors.ErrInvalidUser, minPasswordLength)
	}
	return nil
}

// GetUser returns a single user
func (s *UserService) GetUser(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, fmt.Errorf("service: %w - empty user ID", usererrors.ErrInvalidUser)
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// ListUsers returns every registered user
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("service: %w - empty user ID", usererrors.ErrInvalidUser)
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("service: failed to delete user %s: %w", userID, err)
	}
	return nil
}

// Authenticate checks credentials and opens a session. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, usererrors.ErrUserNotFound) {
		return model.Session{}, fmt.Errorf("service: %w", usererrors.ErrInvalidCredentials)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("service: failed to look up %s: %w", email, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.Session{}, fmt.Errorf("service: %w", usererrors.ErrInvalidCredentials)
	}

	return model.Session{
		Token:     utils.GenerateToken(),
		UserID:    user.UserID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
