package usecase

import (
	"context"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/integration/databar"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

type AssignmentRepositoryInterface interface {
	// List returns one page plus the total count for the filter.
	List(ctx context.Context, filter entity.AssignmentFilter) ([]entity.LeadAssignment, int, error)
	FindByID(ctx context.Context, id, workspaceID string) (*entity.LeadAssignment, error)
	FindByIDs(ctx context.Context, ids []string, workspaceID string) ([]entity.LeadAssignment, error)
	UpdateStatus(ctx context.Context, a *entity.LeadAssignment) error
	BulkUpdateStatus(ctx context.Context, ids []string, workspaceID, status string) (int, error)
	AddTag(ctx context.Context, ids []string, workspaceID, tag string) (int, error)
}

type LeadRepositoryInterface interface {
	MarkEnrichment(ctx context.Context, leadID, status string, result *databar.EnrichOutput) error
}

type WorkspaceRepositoryInterface interface {
	Create(ctx context.Context, w *entity.Workspace) error
	Delete(ctx context.Context, id string) error
	FindByOwner(ctx context.Context, userID string) (*entity.Workspace, error)
	// DecrementCredits spends one credit; returns the remaining balance or
	// ErrInsufficientCredits when the balance is already zero.
	DecrementCredits(ctx context.Context, id string) (int, error)
}

type QueueProducerInterface interface {
	PublishChange(ctx context.Context, workspaceID, userID string, event queue.ChangeEvent) error
	PublishSeed(ctx context.Context, payload queue.SeedPayload) error
}

type EnrichmentProvider interface {
	Enrich(ctx context.Context, input databar.EnrichInput) (*databar.EnrichOutput, error)
}

type EmailService interface {
	SendWelcome(to, name, workspaceName string) error
}
