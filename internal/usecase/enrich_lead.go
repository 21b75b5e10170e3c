package usecase

import (
	"context"
	"log"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/integration/databar"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

type EnrichLeadUseCase struct {
	Assignments AssignmentRepositoryInterface
	Leads       LeadRepositoryInterface
	Workspaces  WorkspaceRepositoryInterface
	Provider    EnrichmentProvider
	Queue       QueueProducerInterface
}

func NewEnrichLeadUseCase(
	assignments AssignmentRepositoryInterface,
	leads LeadRepositoryInterface,
	workspaces WorkspaceRepositoryInterface,
	provider EnrichmentProvider,
	producer QueueProducerInterface,
) *EnrichLeadUseCase {
	return &EnrichLeadUseCase{
		Assignments: assignments,
		Leads:       leads,
		Workspaces:  workspaces,
		Provider:    provider,
		Queue:       producer,
	}
}

// Execute enriches one lead's contact fields via the provider, spending one
// workspace credit. The credit is only spent on success; a provider failure
// marks the row failed and costs nothing.
func (uc *EnrichLeadUseCase) Execute(ctx context.Context, input EnrichLeadInput) (*EnrichLeadOutput, error) {
	assignment, err := uc.Assignments.FindByID(ctx, input.AssignmentID, input.WorkspaceID)
	if err != nil {
		return nil, ErrNotFound
	}

	if assignment.Lead.EnrichmentStatus == entity.EnrichmentEnriched {
		// Already paid for. Re-running would burn a credit for nothing.
		return &EnrichLeadOutput{Lead: assignment.Lead}, nil
	}

	workspace, err := uc.Workspaces.FindByOwner(ctx, input.UserID)
	if err != nil || workspace == nil {
		return nil, ErrNotFound
	}
	if workspace.Credits < 1 {
		return nil, ErrInsufficientCredits
	}

	result, err := uc.Provider.Enrich(ctx, databar.EnrichInput{
		Name:    assignment.Lead.Name,
		Company: assignment.Lead.Company,
		Email:   assignment.Lead.Email,
		City:    assignment.Lead.City,
		State:   assignment.Lead.State,
	})
	if err != nil {
		if markErr := uc.Leads.MarkEnrichment(ctx, assignment.LeadID, entity.EnrichmentFailed, nil); markErr != nil {
			log.Printf("[enrich] failed to mark lead %s failed: %v", assignment.LeadID, markErr)
		}
		return nil, &DomainError{Code: "ENRICH_FAILED", Message: "enrichment provider rejected the lead: " + err.Error()}
	}

	if err := uc.Leads.MarkEnrichment(ctx, assignment.LeadID, entity.EnrichmentEnriched, result); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist enrichment: " + err.Error()}
	}

	remaining, err := uc.Workspaces.DecrementCredits(ctx, workspace.ID)
	if err != nil {
		// The enrichment is persisted either way; the server stays the
		// authority on the balance.
		log.Printf("[enrich] credit decrement failed for workspace %s: %v", workspace.ID, err)
		remaining = workspace.Credits
	}

	assignment.Lead.EnrichmentStatus = entity.EnrichmentEnriched
	assignment.Lead.Email = pick(result.Email, assignment.Lead.Email)
	assignment.Lead.Phone = pick(result.Phone, assignment.Lead.Phone)
	assignment.Lead.JobTitle = pick(result.JobTitle, assignment.Lead.JobTitle)
	assignment.Lead.LinkedInURL = pick(result.LinkedInURL, assignment.Lead.LinkedInURL)

	event := queue.ChangeEvent{
		Event:  queue.EventUpdate,
		Schema: "public",
		Table:  "leads",
		New: map[string]any{
			"id":                assignment.LeadID,
			"workspace_id":      input.WorkspaceID,
			"enrichment_status": entity.EnrichmentEnriched,
		},
	}
	if err := uc.Queue.PublishChange(ctx, input.WorkspaceID, assignment.UserID, event); err != nil {
		log.Printf("[enrich] change publish failed for lead %s: %v", assignment.LeadID, err)
	}

	return &EnrichLeadOutput{Lead: assignment.Lead, CreditsRemaining: remaining}, nil
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
