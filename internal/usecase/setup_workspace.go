package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

// Credits granted to every new workspace.
const initialCredits = 100

type SetupWorkspaceUseCase struct {
	Workspaces   WorkspaceRepositoryInterface
	Queue        QueueProducerInterface
	EmailService EmailService
}

func NewSetupWorkspaceUseCase(
	workspaces WorkspaceRepositoryInterface,
	producer QueueProducerInterface,
	emailService EmailService,
) *SetupWorkspaceUseCase {
	return &SetupWorkspaceUseCase{
		Workspaces:   workspaces,
		Queue:        producer,
		EmailService: emailService,
	}
}

// Execute creates the owner's workspace exactly once. A repeat submission
// (retries after an OAuth redirect hit this constantly) observes
// ErrWorkspaceExists rather than a duplicate row.
func (uc *SetupWorkspaceUseCase) Execute(ctx context.Context, userID string, input OnboardingInput) (*SetupWorkspaceOutput, error) {
	if validationErrors := ValidateOnboardingInput(input); len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(validationErrors),
		}
	}

	if existing, err := uc.Workspaces.FindByOwner(ctx, userID); err == nil && existing != nil {
		return nil, ErrWorkspaceExists
	}

	name := strings.TrimSpace(input.WorkspaceName)
	if name == "" {
		name = strings.TrimSpace(input.Company)
	}
	if name == "" {
		name = input.Name + "'s workspace"
	}

	workspace, err := entity.NewWorkspace(userID, name, input.Company, input.Industry, input.Role, initialCredits)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	txn := NewTransaction()

	txn.AddOperation("create_workspace", func(ctx context.Context) error {
		return uc.Workspaces.Create(ctx, workspace)
	})
	txn.AddCompensation("delete_workspace", func(ctx context.Context) error {
		return uc.Workspaces.Delete(ctx, workspace.ID)
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist workspace: " + err.Error(),
		}
	}

	go func() {
		if uc.EmailService != nil {
			if err := uc.EmailService.SendWelcome(input.Email, input.Name, workspace.Name); err != nil {
				log.Printf("[onboarding] welcome mail to %s failed: %v", input.Email, err)
			}
		}
	}()

	return &SetupWorkspaceOutput{
		WorkspaceID: workspace.ID,
		Msg:         "workspace created",
	}, nil
}

type SeedWorkspaceUseCase struct {
	Workspaces WorkspaceRepositoryInterface
	Queue      QueueProducerInterface
}

func NewSeedWorkspaceUseCase(workspaces WorkspaceRepositoryInterface, producer QueueProducerInterface) *SeedWorkspaceUseCase {
	return &SeedWorkspaceUseCase{Workspaces: workspaces, Queue: producer}
}

// Execute enqueues the initial-data job for the owner's workspace. Callers
// treat failures as non-fatal: the background scheduler re-seeds empty
// workspaces on its own.
func (uc *SeedWorkspaceUseCase) Execute(ctx context.Context, userID string) error {
	workspace, err := uc.Workspaces.FindByOwner(ctx, userID)
	if err != nil || workspace == nil {
		return ErrNotFound
	}
	return uc.Queue.PublishSeed(ctx, queue.SeedPayload{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Industry:    workspace.Industry,
	})
}
