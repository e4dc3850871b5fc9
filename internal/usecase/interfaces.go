package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

type NotificationRepositoryInterface = entity.NotificationRepositoryInterface

type LogRepositoryInterface = entity.LogRepositoryInterface

// EmailSender delivers a rendered message. Implementations: SMTP, RabbitMQ
// producer, no-op.
type EmailSender interface {
	Send(ctx context.Context, msg entity.EmailMessage) error
}

type ProjectEmailRenderer interface {
	RenderProjectStatus(lead *entity.Lead, updatedBy string) (subject, html string, err error)
}

// Notifier is the subset of NotificationEmitter the lead flows depend on.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *entity.Lead, createdBy string) (string, error)
	NotifyStatusChange(ctx context.Context, lead *entity.Lead, oldStage, newStage entity.Stage, updatedBy string) (string, error)
	NotifyLeadUpdate(ctx context.Context, lead *entity.Lead, updatedBy string) (string, error)
}

// NoteRecorder is the subset of AuditNoteRecorder the lead flows depend on.
type NoteRecorder interface {
	RecordFieldChanges(ctx context.Context, leadID string, before, after *entity.Lead, actorID string) (bool, error)
	RecordStatusChange(ctx context.Context, leadID string, oldStage, newStage entity.Stage, actorID string) error
}

// ActivityRecorder never fails from the caller's point of view.
type ActivityRecorder interface {
	Record(ctx context.Context, actor entity.Actor, action, resourceType, description, resourceID string)
}

type requestMetaKey struct{}

// RequestMeta carries client details captured by the HTTP layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
