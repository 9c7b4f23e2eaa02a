package repository

import (
	"context"

	model "request-logger/internal/models"
	"request-logger/internal/notify"
)

// QueryEvent names the notification published for every store call
const QueryEvent = "sql.query"

// InstrumentedRepo decorates a UserDB and publishes a QueryEvent with the
// elapsed time of each call
type InstrumentedRepo struct {
	next UserDB
	bus  *notify.Bus
}

// NewInstrumentedRepo wraps next so each call is timed on bus
func NewInstrumentedRepo(next UserDB, bus *notify.Bus) *InstrumentedRepo {
	return &InstrumentedRepo{next: next, bus: bus}
}

func (r *InstrumentedRepo) instrument(ctx context.Context, op string, fn func() error) error {
	return r.bus.Instrument(ctx, QueryEvent, map[string]any{"op": op}, fn)
}

func (r *InstrumentedRepo) CreateUser(ctx context.Context, user model.User) error {
	return r.instrument(ctx, "CreateUser", func() error {
		return r.next.CreateUser(ctx, user)
	})
}

func (r *InstrumentedRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	err := r.instrument(ctx, "GetUser", func() error {
		var err error
		user, err = r.next.GetUser(ctx, userID)
		return err
	})
	return user, err
}

func (r *InstrumentedRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.instrument(ctx, "GetUserByEmail", func() error {
		var err error
		user, err = r.next.GetUserByEmail(ctx, email)
		return err
	})
	return user, err
}

func (r *InstrumentedRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.instrument(ctx, "ListUsers", func() error {
		var err error
		users, err = r.next.ListUsers(ctx)
		return err
	})
	return users, err
}

func (r *InstrumentedRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.instrument(ctx, "DeleteUser", func() error {
		return r.next.DeleteUser(ctx, userID)
	})
}
