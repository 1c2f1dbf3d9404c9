package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertByEmail returns the user with the given email, creating it with name
// when it does not exist. The existing name is never overwritten.
func (r *UserRepository) UpsertByEmail(ctx context.Context, email, name string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email required")
	}

	// the no-op update makes RETURNING yield the existing row on conflict
	const q = `
INSERT INTO users (id, email, name)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE
SET email = EXCLUDED.email
RETURNING id, email, name, created_at, updated_at;
`
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, uuid.NewString(), email, name).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id, email, name, created_at, updated_at
FROM users
WHERE email = $1;
`
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
