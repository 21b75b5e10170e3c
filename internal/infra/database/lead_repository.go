package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/integration/databar"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// MarkEnrichment records the outcome of an enrichment attempt. On success
// the provider's fields fill in whatever the row was missing; COALESCE keeps
// any value we already had.
func (r *LeadRepository) MarkEnrichment(ctx context.Context, leadID, status string, result *databar.EnrichOutput) error {
	if result == nil {
		query := `UPDATE leads SET enrichment_status = $1, updated_at = NOW() WHERE id = $2`
		_, err := r.DB.ExecContext(ctx, query, status, leadID)
		return err
	}

	query := `
		UPDATE leads
		SET enrichment_status = $1,
			email = COALESCE(NULLIF($2, ''), email),
			phone = COALESCE(NULLIF($3, ''), phone),
			job_title = COALESCE(NULLIF($4, ''), job_title),
			linkedin_url = COALESCE(NULLIF($5, ''), linkedin_url),
			updated_at = NOW()
		WHERE id = $6
	`

	_, err := r.DB.ExecContext(ctx, query,
		status,
		result.Email,
		result.Phone,
		result.JobTitle,
		result.LinkedInURL,
		leadID,
	)
	if err != nil {
		return fmt.Errorf("mark enrichment: %w", err)
	}
	return nil
}

// FindMatching picks seed candidates for a fresh workspace by industry,
// strongest intent first.
func (r *LeadRepository) FindMatching(ctx context.Context, industry string, limit int) ([]entity.Lead, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''),
			COALESCE(company, ''), COALESCE(job_title, ''),
			COALESCE(city, ''), COALESCE(state, ''), COALESCE(linkedin_url, ''),
			intent_score, enrichment_status, created_at, updated_at
		FROM leads
		WHERE industry = $1
		ORDER BY intent_score DESC, created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, industry, limit)
	if err != nil {
		return nil, fmt.Errorf("find matching leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		var l entity.Lead
		err := rows.Scan(
			&l.ID, &l.Name, &l.Email, &l.Phone,
			&l.Company, &l.JobTitle, &l.City, &l.State, &l.LinkedInURL,
			&l.IntentScore, &l.EnrichmentStatus, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
