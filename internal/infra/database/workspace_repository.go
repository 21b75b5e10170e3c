package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/usecase"
)

type WorkspaceRepository struct {
	DB *sql.DB
}

func NewWorkspaceRepository(db *sql.DB) *WorkspaceRepository {
	return &WorkspaceRepository{DB: db}
}

func (r *WorkspaceRepository) Create(ctx context.Context, w *entity.Workspace) error {
	query := `
		INSERT INTO workspaces (
			id, owner_user_id, name, company, industry, role,
			credits, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		w.ID,
		w.OwnerUserID,
		w.Name,
		w.Company,
		w.Industry,
		w.Role,
		w.Credits,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	return err
}

func (r *WorkspaceRepository) FindByOwner(ctx context.Context, userID string) (*entity.Workspace, error) {
	query := `
		SELECT id, owner_user_id, name, company, industry, role,
			credits, created_at, updated_at
		FROM workspaces
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var w entity.Workspace
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&w.ID, &w.OwnerUserID, &w.Name, &w.Company, &w.Industry, &w.Role,
		&w.Credits, &w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find workspace by owner: %w", err)
	}
	return &w, nil
}

// DecrementCredits spends one credit atomically. The guard clause makes the
// balance the server-side authority: two racing enrich calls cannot spend
// the last credit twice.
func (r *WorkspaceRepository) DecrementCredits(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE workspaces
		SET credits = credits - 1, updated_at = NOW()
		WHERE id = $1 AND credits >= 1
		RETURNING credits
	`

	var remaining int
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, usecase.ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("decrement credits: %w", err)
	}
	return remaining, nil
}
