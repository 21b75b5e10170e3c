package entity

import "time"

// Enrichment lifecycle of a lead row. Credits are only spent when a row
// actually reaches 'enriched'.
const (
	EnrichmentPending  = "pending"
	EnrichmentEnriched = "enriched"
	EnrichmentFailed   = "failed"
)

type Lead struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Company          string    `json:"company,omitempty"`
	JobTitle         string    `json:"job_title,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	LinkedInURL      string    `json:"linkedin_url,omitempty"`
	IntentScore      int       `json:"intent_score"`
	EnrichmentStatus string    `json:"enrichment_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
