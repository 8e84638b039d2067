package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fugevet/fintrack/internal/platform/user"
)

const uniqueViolation = "23505"

// selectUser lists columns in user.User field order so rows can be collected
// by position.
const selectUser = `SELECT id, name, email, password_hash, created_at, updated_at, last_login_at FROM users `

// UserRepository implements user.Repository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts u and fills in its serial ID
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, created_at, updated_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt, u.LastLoginAt,
	).Scan(&u.ID)
	return userWriteErr("create", err)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.collectOne(ctx, selectUser+`WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.collectOne(ctx, selectUser+`WHERE email = $1`, email)
}

func (r *UserRepository) collectOne(ctx context.Context, query string, arg any) (*user.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByPos[user.User])
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, user.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return u, nil
}

// Update overwrites the mutable columns of u
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, updated_at = $5, last_login_at = $6
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.UpdatedAt, u.LastLoginAt,
	)
	if err != nil {
		return userWriteErr("update", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Exists reports whether email is already registered
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	return found, nil
}

func userWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return user.ErrUserAlreadyExists
	}
	return fmt.Errorf("failed to %s user: %w", op, err)
}
