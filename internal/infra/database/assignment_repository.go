package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

type AssignmentRepository struct {
	DB *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

const assignmentColumns = `
	a.id, a.lead_id, a.workspace_id, a.user_id, a.status,
	a.matching_criteria, a.tags, a.viewed_at, a.contacted_at, a.created_at,
	l.id, l.name, l.email, l.phone, l.company, l.job_title,
	l.city, l.state, l.linkedin_url, l.intent_score, l.enrichment_status,
	l.created_at, l.updated_at
`

// List returns one page newest-first plus the total count for the filter.
func (r *AssignmentRepository) List(ctx context.Context, filter entity.AssignmentFilter) ([]entity.LeadAssignment, int, error) {
	where := []string{"a.workspace_id = $1", "a.user_id = $2"}
	args := []any{filter.WorkspaceID, filter.UserID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.EnrichmentStatus != "" {
		args = append(args, filter.EnrichmentStatus)
		where = append(where, fmt.Sprintf("l.enrichment_status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where = append(where, fmt.Sprintf("a.created_at >= $%d", len(args)))
	}

	condition := strings.Join(where, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM lead_assignments a
		JOIN leads l ON l.id = a.lead_id
		WHERE ` + condition

	var count int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM lead_assignments a
		JOIN leads l ON l.id = a.lead_id
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, assignmentColumns, condition, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var result []entity.LeadAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *a)
	}

	return result, count, rows.Err()
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id, workspaceID string) (*entity.LeadAssignment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lead_assignments a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.id = $1 AND a.workspace_id = $2
	`, assignmentColumns)

	row := r.DB.QueryRowContext(ctx, query, id, workspaceID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("assignment not found: %w", err)
	}
	return a, nil
}

func (r *AssignmentRepository) FindByIDs(ctx context.Context, ids []string, workspaceID string) ([]entity.LeadAssignment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lead_assignments a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.id = ANY($1) AND a.workspace_id = $2
		ORDER BY a.created_at DESC
	`, assignmentColumns)

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids), workspaceID)
	if err != nil {
		return nil, fmt.Errorf("find assignments by ids: %w", err)
	}
	defer rows.Close()

	var result []entity.LeadAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// UpdateStatus persists a status transition. COALESCE keeps the first stamp:
// viewed_at/contacted_at never move once set, whatever the entity passed in.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, a *entity.LeadAssignment) error {
	query := `
		UPDATE lead_assignments
		SET status = $1,
			viewed_at = COALESCE(viewed_at, $2),
			contacted_at = COALESCE(contacted_at, $3)
		WHERE id = $4 AND workspace_id = $5
	`

	res, err := r.DB.ExecContext(ctx, query, a.Status, a.ViewedAt, a.ContactedAt, a.ID, a.WorkspaceID)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AssignmentRepository) BulkUpdateStatus(ctx context.Context, ids []string, workspaceID, status string) (int, error) {
	query := `
		UPDATE lead_assignments
		SET status = $1
		WHERE id = ANY($2) AND workspace_id = $3
	`

	res, err := r.DB.ExecContext(ctx, query, status, pq.Array(ids), workspaceID)
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// AddTag appends the tag to every selected row that does not carry it yet.
func (r *AssignmentRepository) AddTag(ctx context.Context, ids []string, workspaceID, tag string) (int, error) {
	query := `
		UPDATE lead_assignments
		SET tags = array_append(tags, $1)
		WHERE id = ANY($2) AND workspace_id = $3 AND NOT (tags @> ARRAY[$1])
	`

	res, err := r.DB.ExecContext(ctx, query, tag, pq.Array(ids), workspaceID)
	if err != nil {
		return 0, fmt.Errorf("bulk tag: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Insert persists a seeded assignment (used by the seed worker).
func (r *AssignmentRepository) Insert(ctx context.Context, a *entity.LeadAssignment) error {
	criteria, err := json.Marshal(a.Criteria)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lead_assignments (
			id, lead_id, workspace_id, user_id, status,
			matching_criteria, tags, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.LeadID,
		a.WorkspaceID,
		a.UserID,
		a.Status,
		criteria,
		pq.Array(a.Tags),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*entity.LeadAssignment, error) {
	var a entity.LeadAssignment
	var criteria []byte
	var tags pq.StringArray
	var email, phone, company, jobTitle, city, state, linkedin sql.NullString

	err := row.Scan(
		&a.ID, &a.LeadID, &a.WorkspaceID, &a.UserID, &a.Status,
		&criteria, &tags, &a.ViewedAt, &a.ContactedAt, &a.CreatedAt,
		&a.Lead.ID, &a.Lead.Name, &email, &phone, &company, &jobTitle,
		&city, &state, &linkedin, &a.Lead.IntentScore, &a.Lead.EnrichmentStatus,
		&a.Lead.CreatedAt, &a.Lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &a.Criteria); err != nil {
			return nil, fmt.Errorf("decode matching criteria: %w", err)
		}
	}
	a.Tags = tags
	a.Lead.Email = email.String
	a.Lead.Phone = phone.String
	a.Lead.Company = company.String
	a.Lead.JobTitle = jobTitle.String
	a.Lead.City = city.String
	a.Lead.State = state.String
	a.Lead.LinkedInURL = linkedin.String

	return &a, nil
}
