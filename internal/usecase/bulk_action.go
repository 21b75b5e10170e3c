package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

type BulkActionUseCase struct {
	Assignments AssignmentRepositoryInterface
	Queue       QueueProducerInterface
}

func NewBulkActionUseCase(assignments AssignmentRepositoryInterface, producer QueueProducerInterface) *BulkActionUseCase {
	return &BulkActionUseCase{Assignments: assignments, Queue: producer}
}

// Execute applies one action to the whole id list. Archive, unarchive and
// tag are all-or-nothing single statements; export_csv reads the rows and
// renders them, mutating nothing.
func (uc *BulkActionUseCase) Execute(ctx context.Context, input BulkActionInput) (*BulkActionOutput, error) {
	if validationErrors := ValidateBulkActionInput(input); len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(validationErrors),
		}
	}

	switch input.Action {
	case ActionArchive:
		return uc.bulkStatus(ctx, input, entity.StatusArchived)
	case ActionUnarchive:
		return uc.bulkStatus(ctx, input, entity.StatusNew)
	case ActionTag:
		updated, err := uc.Assignments.AddTag(ctx, input.LeadIDs, input.WorkspaceID, strings.TrimSpace(input.TagName))
		if err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to tag leads: " + err.Error()}
		}
		return &BulkActionOutput{Updated: updated}, nil
	case ActionExportCSV:
		rows, err := uc.Assignments.FindByIDs(ctx, input.LeadIDs, input.WorkspaceID)
		if err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load leads for export: " + err.Error()}
		}
		return &BulkActionOutput{CSV: RenderLeadsCSV(rows)}, nil
	}

	// Unreachable: validation rejects unknown actions.
	return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "unknown action"}
}

func (uc *BulkActionUseCase) bulkStatus(ctx context.Context, input BulkActionInput, status string) (*BulkActionOutput, error) {
	updated, err := uc.Assignments.BulkUpdateStatus(ctx, input.LeadIDs, input.WorkspaceID, status)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "bulk status update failed: " + err.Error()}
	}

	for _, id := range input.LeadIDs {
		event := queue.ChangeEvent{
			Event:  queue.EventUpdate,
			Schema: "public",
			Table:  "lead_assignments",
			New: map[string]any{
				"id":           id,
				"workspace_id": input.WorkspaceID,
				"user_id":      input.UserID,
				"status":       status,
			},
		}
		if err := uc.Queue.PublishChange(ctx, input.WorkspaceID, input.UserID, event); err != nil {
			log.Printf("[bulk] change publish failed for %s: %v", id, err)
		}
	}

	return &BulkActionOutput{Updated: updated}, nil
}
