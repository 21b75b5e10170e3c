package usecase

import (
	"context"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

type ListAssignmentsUseCase struct {
	Assignments AssignmentRepositoryInterface
}

func NewListAssignmentsUseCase(assignments AssignmentRepositoryInterface) *ListAssignmentsUseCase {
	return &ListAssignmentsUseCase{Assignments: assignments}
}

// Execute returns one page of assignments newest-first plus the total count
// for the filter, so the dashboard can clamp its page index.
func (uc *ListAssignmentsUseCase) Execute(ctx context.Context, input ListAssignmentsInput) (*ListAssignmentsOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	status := input.Status
	if status == FilterAll {
		status = ""
	}
	if status != "" && !entity.IsValidStatus(status) {
		return nil, &DomainError{Code: "INVALID_FILTER", Message: "unknown status filter: " + status}
	}

	filter := entity.AssignmentFilter{
		WorkspaceID:      input.WorkspaceID,
		UserID:           input.UserID,
		Status:           status,
		EnrichmentStatus: input.EnrichmentStatus,
		DateFrom:         input.DateFrom,
		Limit:            perPage,
		Offset:           (page - 1) * perPage,
	}

	data, count, err := uc.Assignments.List(ctx, filter)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list assignments: " + err.Error()}
	}

	totalPages := (count + perPage - 1) / perPage

	return &ListAssignmentsOutput{
		Data:  data,
		Count: count,
		Pagination: Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		},
	}, nil
}

type GetAssignmentUseCase struct {
	Assignments AssignmentRepositoryInterface
}

func NewGetAssignmentUseCase(assignments AssignmentRepositoryInterface) *GetAssignmentUseCase {
	return &GetAssignmentUseCase{Assignments: assignments}
}

// Execute fetches one joined row scoped by workspace. Realtime INSERT events
// carry only raw assignment columns, so subscribers call this to get the
// displayable row.
func (uc *GetAssignmentUseCase) Execute(ctx context.Context, id, workspaceID string) (*entity.LeadAssignment, error) {
	a, err := uc.Assignments.FindByID(ctx, id, workspaceID)
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}
