package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, input entity.LeadInput, ownerID string) (string, error) {
	args := m.Called(ctx, input, ownerID)
	return args.String(0), args.Error(1)
}

func (m *MockLeadRepository) Get(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockLeadRepository) AppendNote(ctx context.Context, id string, note entity.Note) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) CountByStage(ctx context.Context) (map[entity.Stage]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.Stage]int), args.Error(1)
}

// MockNotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entity.Notification) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id string) (*entity.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListForRecipient(ctx context.Context, r entity.Recipient) ([]*entity.Notification, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLogRepository
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Append(ctx context.Context, e *entity.LogEntry) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}

func (m *MockLogRepository) List(ctx context.Context, filter entity.LogFilter, pageSize int, cursor *entity.LogCursor) (entity.LogPage, error) {
	args := m.Called(ctx, filter, pageSize, cursor)
	return args.Get(0).(entity.LogPage), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewLead(ctx context.Context, lead *entity.Lead, createdBy string) (string, error) {
	args := m.Called(ctx, lead, createdBy)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, lead *entity.Lead, oldStage, newStage entity.Stage, updatedBy string) (string, error) {
	args := m.Called(ctx, lead, oldStage, newStage, updatedBy)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) NotifyLeadUpdate(ctx context.Context, lead *entity.Lead, updatedBy string) (string, error) {
	args := m.Called(ctx, lead, updatedBy)
	return args.String(0), args.Error(1)
}

// MockNoteRecorder
type MockNoteRecorder struct {
	mock.Mock
}

func (m *MockNoteRecorder) RecordFieldChanges(ctx context.Context, leadID string, before, after *entity.Lead, actorID string) (bool, error) {
	args := m.Called(ctx, leadID, before, after, actorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNoteRecorder) RecordStatusChange(ctx context.Context, leadID string, oldStage, newStage entity.Stage, actorID string) error {
	args := m.Called(ctx, leadID, oldStage, newStage, actorID)
	return args.Error(0)
}

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg entity.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderProjectStatus(lead *entity.Lead, updatedBy string) (string, string, error) {
	args := m.Called(lead, updatedBy)
	return args.String(0), args.String(1), args.Error(2)
}

// MockActivity
type MockActivity struct {
	mock.Mock
}

func (m *MockActivity) Record(ctx context.Context, actor entity.Actor, action, resourceType, description, resourceID string) {
	m.Called(ctx, actor, action, resourceType, description, resourceID)
}
