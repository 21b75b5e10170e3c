package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleBusiness = "business"
	RolePartner  = "partner"
)

// Workspace is the tenant boundary. Every list, mutation and realtime
// channel is scoped by workspace id.
type Workspace struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Industry    string    `json:"industry"`
	Role        string    `json:"role"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewWorkspace(ownerUserID, name, company, industry, role string, credits int) (*Workspace, error) {
	ws := &Workspace{
		ID:          uuid.New().String(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Company:     company,
		Industry:    industry,
		Role:        role,
		Credits:     credits,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}

func (w *Workspace) Validate() error {
	if w.OwnerUserID == "" {
		return errors.New("owner user id is required")
	}
	if w.Name == "" {
		return errors.New("name is required")
	}
	if w.Role != RoleBusiness && w.Role != RolePartner {
		return errors.New("role must be business or partner")
	}
	return nil
}
