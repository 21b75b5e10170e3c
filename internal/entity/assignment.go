package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Assignment status values. The enum is free-choice: any status may be set
// from any other, there is no enforced progression.
const (
	StatusNew       = "new"
	StatusViewed    = "viewed"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusArchived  = "archived"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusViewed, StatusContacted, StatusConverted, StatusArchived:
		return true
	}
	return false
}

// AssignmentFilter scopes a list query. Workspace and user are mandatory;
// the rest narrow the page.
type AssignmentFilter struct {
	WorkspaceID      string
	UserID           string
	Status           string // empty means no status filter
	EnrichmentStatus string
	DateFrom         *time.Time
	Limit            int
	Offset           int
}

// LeadAssignment pairs a Lead with a user inside a workspace. It carries its
// own status independent of the underlying Lead, plus a denormalized copy of
// the lead's display fields so the list never needs a second fetch.
type LeadAssignment struct {
	ID          string            `json:"id"`
	LeadID      string            `json:"lead_id"`
	WorkspaceID string            `json:"workspace_id"`
	UserID      string            `json:"user_id"`
	Status      string            `json:"status"`
	Criteria    map[string]string `json:"matching_criteria,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	ViewedAt    *time.Time        `json:"viewed_at,omitempty"`
	ContactedAt *time.Time        `json:"contacted_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	// Read-only join from the leads table.
	Lead Lead `json:"lead"`
}

func NewLeadAssignment(leadID, workspaceID, userID string, criteria map[string]string) (*LeadAssignment, error) {
	if leadID == "" {
		return nil, errors.New("lead id is required")
	}
	if workspaceID == "" {
		return nil, errors.New("workspace id is required")
	}
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return &LeadAssignment{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		WorkspaceID: workspaceID,
		UserID:      userID,
		Status:      StatusNew,
		Criteria:    criteria,
		CreatedAt:   time.Now(),
	}, nil
}

// ApplyStatus moves the assignment to the given status and stamps the
// monotonic timestamps: viewed_at is set the first time the row reaches
// viewed or beyond, contacted_at the first time it reaches contacted or
// beyond. Once set they are never cleared, whatever the later transitions.
func (a *LeadAssignment) ApplyStatus(status string, now time.Time) error {
	if !IsValidStatus(status) {
		return errors.New("invalid status: " + status)
	}
	a.Status = status

	switch status {
	case StatusViewed, StatusContacted, StatusConverted:
		if a.ViewedAt == nil {
			t := now
			a.ViewedAt = &t
		}
	}
	if status == StatusContacted && a.ContactedAt == nil {
		t := now
		a.ContactedAt = &t
	}
	return nil
}
