package usecase

import (
	"time"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

// OnboardingInput is the workspace-setup payload the dashboard submits after
// the signup quiz (or synthesizes from the identity profile after an OAuth
// return with no stored answers).
type OnboardingInput struct {
	Role          string `json:"role"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Company       string `json:"company"`
	Industry      string `json:"industry"`
	WorkspaceName string `json:"workspace_name,omitempty"`
}

type SetupWorkspaceOutput struct {
	WorkspaceID string `json:"workspace_id"`
	Msg         string `json:"msg,omitempty"`
}

// Assignment list filter values accepted from the dashboard.
const (
	FilterAll = "all"
)

type ListAssignmentsInput struct {
	WorkspaceID      string
	UserID           string
	Page             int
	PerPage          int
	Status           string // all | new | viewed | contacted | converted | archived
	EnrichmentStatus string
	DateFrom         *time.Time
}

type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

type ListAssignmentsOutput struct {
	Data       []entity.LeadAssignment `json:"data"`
	Count      int                     `json:"count"`
	Pagination Pagination              `json:"pagination"`
}

type UpdateStatusInput struct {
	AssignmentID string
	WorkspaceID  string
	UserID       string
	Status       string
}

// Bulk actions over a selection of assignment ids.
const (
	ActionArchive   = "archive"
	ActionUnarchive = "unarchive"
	ActionTag       = "tag"
	ActionExportCSV = "export_csv"
)

type BulkActionInput struct {
	WorkspaceID string
	UserID      string
	LeadIDs     []string `json:"lead_ids"`
	Action      string   `json:"action"`
	TagName     string   `json:"tag_name,omitempty"`
}

type BulkActionOutput struct {
	Updated int    `json:"updated,omitempty"`
	CSV     []byte `json:"-"` // set only for export_csv
}

type EnrichLeadInput struct {
	AssignmentID string
	WorkspaceID  string
	UserID       string
}

type EnrichLeadOutput struct {
	Lead             entity.Lead `json:"lead"`
	CreditsRemaining int         `json:"credits_remaining"`
}
