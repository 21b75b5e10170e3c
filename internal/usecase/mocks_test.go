package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/integration/databar"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) List(ctx context.Context, filter entity.AssignmentFilter) ([]entity.LeadAssignment, int, error) {
	args := m.Called(ctx, filter)
	var rows []entity.LeadAssignment
	if args.Get(0) != nil {
		rows = args.Get(0).([]entity.LeadAssignment)
	}
	return rows, args.Int(1), args.Error(2)
}

func (m *MockAssignmentRepository) FindByID(ctx context.Context, id, workspaceID string) (*entity.LeadAssignment, error) {
	args := m.Called(ctx, id, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) FindByIDs(ctx context.Context, ids []string, workspaceID string) ([]entity.LeadAssignment, error) {
	args := m.Called(ctx, ids, workspaceID)
	var rows []entity.LeadAssignment
	if args.Get(0) != nil {
		rows = args.Get(0).([]entity.LeadAssignment)
	}
	return rows, args.Error(1)
}

func (m *MockAssignmentRepository) UpdateStatus(ctx context.Context, a *entity.LeadAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) BulkUpdateStatus(ctx context.Context, ids []string, workspaceID, status string) (int, error) {
	args := m.Called(ctx, ids, workspaceID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) AddTag(ctx context.Context, ids []string, workspaceID, tag string) (int, error) {
	args := m.Called(ctx, ids, workspaceID, tag)
	return args.Int(0), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) MarkEnrichment(ctx context.Context, leadID, status string, result *databar.EnrichOutput) error {
	args := m.Called(ctx, leadID, status, result)
	return args.Error(0)
}

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, w *entity.Workspace) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) FindByOwner(ctx context.Context, userID string) (*entity.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) DecrementCredits(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishChange(ctx context.Context, workspaceID, userID string, event queue.ChangeEvent) error {
	args := m.Called(ctx, workspaceID, userID, event)
	return args.Error(0)
}

func (m *MockQueueProducer) PublishSeed(ctx context.Context, payload queue.SeedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockEnrichmentProvider struct {
	mock.Mock
}

func (m *MockEnrichmentProvider) Enrich(ctx context.Context, input databar.EnrichInput) (*databar.EnrichOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*databar.EnrichOutput), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(to, name, workspaceName string) error {
	args := m.Called(to, name, workspaceName)
	return args.Error(0)
}
