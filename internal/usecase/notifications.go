package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// NotificationEmitter writes admin-facing notifications about lead activity.
// Every notification targets the admin role broadcast.
type NotificationEmitter struct {
	Repo   NotificationRepositoryInterface
	Logger *zap.Logger
}

func NewNotificationEmitter(repo NotificationRepositoryInterface, logger *zap.Logger) *NotificationEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationEmitter{Repo: repo, Logger: logger}
}

func (e *NotificationEmitter) NotifyNewLead(ctx context.Context, lead *entity.Lead, createdBy string) (string, error) {
	return e.emit(ctx, lead, entity.NotificationNewLead,
		"New Lead Added",
		fmt.Sprintf("%s from %s has been added by %s", lead.Name, lead.Company, createdBy))
}

func (e *NotificationEmitter) NotifyStatusChange(ctx context.Context, lead *entity.Lead, oldStage, newStage entity.Stage, updatedBy string) (string, error) {
	return e.emit(ctx, lead, entity.NotificationStatusChange,
		"Lead Status Changed",
		fmt.Sprintf("%s status changed from %s to %s by %s", lead.Name, oldStage.Label(), newStage.Label(), updatedBy))
}

func (e *NotificationEmitter) NotifyLeadUpdate(ctx context.Context, lead *entity.Lead, updatedBy string) (string, error) {
	return e.emit(ctx, lead, entity.NotificationLeadUpdate,
		"Lead Updated",
		fmt.Sprintf("%s from %s has been updated by %s", lead.Name, lead.Company, updatedBy))
}

func (e *NotificationEmitter) emit(ctx context.Context, lead *entity.Lead, typ entity.NotificationType, title, message string) (string, error) {
	n := &entity.Notification{
		Recipient: entity.AdminBroadcast,
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		Title:     title,
		Message:   message,
		Type:      typ,
		IsRead:    false,
	}

	id, err := e.Repo.Create(ctx, n)
	if err != nil {
		return "", fmt.Errorf("create %s notification: %w", typ, err)
	}
	return id, nil
}

// List returns the notifications for a recipient, newest first.
func (e *NotificationEmitter) List(ctx context.Context, r entity.Recipient) ([]*entity.Notification, error) {
	items, err := e.Repo.ListForRecipient(ctx, r)
	if err != nil {
		return nil, Classify(err, "list notifications")
	}
	return items, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds.
func (e *NotificationEmitter) MarkRead(ctx context.Context, id string) error {
	if err := e.Repo.MarkRead(ctx, id); err != nil {
		return Classify(err, "mark notification read")
	}
	return nil
}

// MarkAllRead fetches the recipient's notifications and marks each unread one.
// It is not atomic: on failure some notifications may already be marked, and
// calling it again is safe. It returns how many were marked.
func (e *NotificationEmitter) MarkAllRead(ctx context.Context, r entity.Recipient) (int, error) {
	items, err := e.Repo.ListForRecipient(ctx, r)
	if err != nil {
		return 0, Classify(err, "list notifications")
	}

	marked := 0
	for _, n := range items {
		if n.IsRead {
			continue
		}
		if err := e.Repo.MarkRead(ctx, n.ID); err != nil {
			e.Logger.Warn("mark all read stopped early",
				zap.String("notification_id", n.ID), zap.Int("marked", marked), zap.Error(err))
			return marked, Classify(err, "mark notification read")
		}
		marked++
	}
	return marked, nil
}
