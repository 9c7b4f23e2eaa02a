package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	model "request-logger/internal/models"
	"request-logger/internal/usererrors"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// UserDB defines the user storage interface
type UserDB interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of UserDB
type MemoryRepo struct {
	mu      sync.RWMutex
	users   map[string]model.User // key: userID -> value: user
	byEmail map[string]string     // key: lowercased email -> value: userID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:   make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// CreateUser stores a new user; emails are unique case-insensitively
func (r *MemoryRepo) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return fmt.Errorf("create user %s: %w", user.Email, usererrors.ErrEmailTaken)
	}

	r.users[user.UserID] = user
	r.byEmail[email] = user.UserID
	return nil
}

// GetUser returns a user by ID
func (r *MemoryRepo) GetUser(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, usererrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByEmail returns a user by email
func (r *MemoryRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, fmt.Errorf("get user by email %s: %w", email, usererrors.ErrUserNotFound)
	}
	return r.users[userID], nil
}

// ListUsers returns all users ordered by creation time
func (r *MemoryRepo) ListUsers(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].UserID < users[j].UserID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// DeleteUser removes a user by ID
func (r *MemoryRepo) DeleteUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("delete user %s: %w", userID, usererrors.ErrUserNotFound)
	}
	delete(r.users, userID)
	delete(r.byEmail, strings.ToLower(user.Email))
	return nil
}
