package usecase

import (
	"context"
	"log"
	"time"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

type UpdateStatusUseCase struct {
	Assignments AssignmentRepositoryInterface
	Queue       QueueProducerInterface
}

func NewUpdateStatusUseCase(assignments AssignmentRepositoryInterface, producer QueueProducerInterface) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{Assignments: assignments, Queue: producer}
}

// Execute moves one assignment to the given status, stamping viewed_at /
// contacted_at monotonically, and notifies the owner's realtime channel.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*entity.LeadAssignment, error) {
	if !entity.IsValidStatus(input.Status) {
		return nil, &DomainError{Code: "INVALID_STATUS", Message: "unknown status: " + input.Status}
	}

	assignment, err := uc.Assignments.FindByID(ctx, input.AssignmentID, input.WorkspaceID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := assignment.ApplyStatus(input.Status, time.Now()); err != nil {
		return nil, &DomainError{Code: "INVALID_STATUS", Message: err.Error()}
	}

	if err := uc.Assignments.UpdateStatus(ctx, assignment); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to update status: " + err.Error()}
	}

	event := queue.ChangeEvent{
		Event:  queue.EventUpdate,
		Schema: "public",
		Table:  "lead_assignments",
		New:    changeColumns(assignment),
	}
	if err := uc.Queue.PublishChange(ctx, assignment.WorkspaceID, assignment.UserID, event); err != nil {
		// The write is committed; a lost notification only delays other
		// open tabs until their next fetch.
		log.Printf("[leads] change event for %s not published: %v", assignment.ID, err)
	}

	return assignment, nil
}

// changeColumns is the partial row snapshot a change event carries: raw
// assignment columns, no lead join.
func changeColumns(a *entity.LeadAssignment) map[string]any {
	cols := map[string]any{
		"id":           a.ID,
		"lead_id":      a.LeadID,
		"workspace_id": a.WorkspaceID,
		"user_id":      a.UserID,
		"status":       a.Status,
	}
	if a.ViewedAt != nil {
		cols["viewed_at"] = a.ViewedAt.Format(time.RFC3339)
	}
	if a.ContactedAt != nil {
		cols["contacted_at"] = a.ContactedAt.Format(time.RFC3339)
	}
	return cols
}
