package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/usecase"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, email, COALESCE(name, ''), created_at FROM users WHERE id = $1`

	var u entity.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Upsert records the identity-provider profile on first sign-in and keeps
// the display name fresh on later ones.
func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, email, name, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = COALESCE(EXCLUDED.name, users.name)
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(ctx, query, u.ID, u.Email, u.Name).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
