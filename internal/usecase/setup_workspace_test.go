package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

func validOnboardingInput() OnboardingInput {
	return OnboardingInput{
		Role:     entity.RoleBusiness,
		Name:     "Ada Example",
		Email:    "ada@example.com",
		Company:  "Example Inc",
		Industry: "Software",
	}
}

func TestSetupWorkspaceSuccess(t *testing.T) {
	ctx := context.Background()

	workspaces := new(MockWorkspaceRepository)
	producer := new(MockQueueProducer)
	emails := new(MockEmailService)

	workspaces.On("FindByOwner", mock.Anything, "user-1").Return(nil, ErrNotFound)
	workspaces.On("Create", mock.Anything, mock.AnythingOfType("*entity.Workspace")).Return(nil)
	emails.On("SendWelcome", "ada@example.com", "Ada Example", mock.Anything).Return(nil)

	uc := NewSetupWorkspaceUseCase(workspaces, producer, emails)

	output, err := uc.Execute(ctx, "user-1", validOnboardingInput())
	assert.NoError(t, err)
	assert.NotEmpty(t, output.WorkspaceID)

	workspaces.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(w *entity.Workspace) bool {
		return w.OwnerUserID == "user-1" && w.Industry == "Software" && w.Credits == initialCredits
	}))

	// Welcome mail goes out asynchronously.
	time.Sleep(20 * time.Millisecond)
	emails.AssertExpectations(t)
}

func TestSetupWorkspaceConflictOnSecondSubmit(t *testing.T) {
	ctx := context.Background()

	workspaces := new(MockWorkspaceRepository)
	producer := new(MockQueueProducer)

	existing := &entity.Workspace{ID: "ws-1", OwnerUserID: "user-1"}
	workspaces.On("FindByOwner", mock.Anything, "user-1").Return(existing, nil)

	uc := NewSetupWorkspaceUseCase(workspaces, producer, nil)

	_, err := uc.Execute(ctx, "user-1", validOnboardingInput())
	assert.ErrorIs(t, err, ErrWorkspaceExists)
	workspaces.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSetupWorkspaceValidation(t *testing.T) {
	uc := NewSetupWorkspaceUseCase(new(MockWorkspaceRepository), new(MockQueueProducer), nil)

	input := validOnboardingInput()
	input.Email = "not-an-email"
	input.Role = "admin"

	_, err := uc.Execute(context.Background(), "user-1", input)
	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "role")
}

func TestSetupWorkspaceFallsBackToCompanyName(t *testing.T) {
	workspaces := new(MockWorkspaceRepository)
	workspaces.On("FindByOwner", mock.Anything, "user-1").Return(nil, ErrNotFound)

	var created *entity.Workspace
	workspaces.On("Create", mock.Anything, mock.AnythingOfType("*entity.Workspace")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.Workspace) }).
		Return(nil)

	uc := NewSetupWorkspaceUseCase(workspaces, new(MockQueueProducer), nil)

	input := validOnboardingInput()
	input.WorkspaceName = ""
	_, err := uc.Execute(context.Background(), "user-1", input)
	assert.NoError(t, err)
	assert.Equal(t, "Example Inc", created.Name)
}

func TestSeedWorkspacePublishesJob(t *testing.T) {
	workspaces := new(MockWorkspaceRepository)
	producer := new(MockQueueProducer)

	workspaces.On("FindByOwner", mock.Anything, "user-1").
		Return(&entity.Workspace{ID: "ws-1", OwnerUserID: "user-1", Industry: "Software"}, nil)
	producer.On("PublishSeed", mock.Anything, mock.Anything).Return(nil)

	uc := NewSeedWorkspaceUseCase(workspaces, producer)
	assert.NoError(t, uc.Execute(context.Background(), "user-1"))

	producer.AssertExpectations(t)
}

func TestSeedWorkspaceWithoutWorkspace(t *testing.T) {
	workspaces := new(MockWorkspaceRepository)
	workspaces.On("FindByOwner", mock.Anything, "user-1").Return(nil, ErrNotFound)

	uc := NewSeedWorkspaceUseCase(workspaces, new(MockQueueProducer))
	assert.ErrorIs(t, uc.Execute(context.Background(), "user-1"), ErrNotFound)
}
