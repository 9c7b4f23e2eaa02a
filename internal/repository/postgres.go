package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	model "request-logger/internal/models"
	"request-logger/internal/notify"
	"request-logger/internal/usererrors"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (lower(email));
`

// PostgresRepo is a PostgreSQL implementation of UserDB. Every query is traced
// and published as a QueryEvent on the bus passed to NewPostgresRepo.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo connects to databaseURL, installs the query tracer and makes
// sure the schema exists
func NewPostgresRepo(ctx context.Context, databaseURL string, bus *notify.Bus) (*PostgresRepo, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.ConnConfig.Tracer = NewQueryTracer(bus)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresRepo{pool: pool}, nil
}

// Close releases the connection pool
func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// CreateUser inserts a new user
func (r *PostgresRepo) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.UserID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("create user %s: %w", user.Email, usererrors.ErrEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return nil
}

// GetUser returns a user by ID
func (r *PostgresRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	user, err := r.scanOne(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return user, nil
}

// GetUserByEmail returns a user by email, case-insensitively
func (r *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := r.scanOne(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return model.User{}, fmt.Errorf("get user by email %s: %w", email, err)
	}
	return user, nil
}

// ListUsers returns all users ordered by creation time
func (r *PostgresRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user by ID
func (r *PostgresRepo) DeleteUser(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user %s: %w", userID, usererrors.ErrUserNotFound)
	}
	return nil
}

func (r *PostgresRepo) scanOne(ctx context.Context, sql string, arg any) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, sql, arg).Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, usererrors.ErrUserNotFound
	}
	return u, err
}
