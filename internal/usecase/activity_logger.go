package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	DefaultLogPageSize = 20
	MaxLogPageSize     = 100
)

// ActivityLogger records user actions for the compliance trail. Recording
// never blocks or fails the action being observed.
type ActivityLogger struct {
	Repo   LogRepositoryInterface
	Logger *zap.Logger
}

func NewActivityLogger(repo LogRepositoryInterface, logger *zap.Logger) *ActivityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogger{Repo: repo, Logger: logger}
}

// Record appends a log entry. Failures are logged and swallowed.
func (l *ActivityLogger) Record(ctx context.Context, actor entity.Actor, action, resourceType, description, resourceID string) {
	meta := RequestMetaFrom(ctx)
	entry := &entity.LogEntry{
		UserID:       actor.ID,
		UserName:     actor.DisplayName(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}

	if _, err := l.Repo.Append(ctx, entry); err != nil {
		l.Logger.Warn("failed to record activity",
			zap.String("user_id", actor.ID),
			zap.String("action", action),
			zap.String("resource_type", resourceType),
			zap.Error(err))
	}
}

// List returns one page of entries, newest first. cursor is the opaque value
// returned as NextCursor by the previous page.
func (l *ActivityLogger) List(ctx context.Context, filter entity.LogFilter, pageSize int, cursor string) (entity.LogPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultLogPageSize
	}
	if pageSize > MaxLogPageSize {
		pageSize = MaxLogPageSize
	}

	c, err := entity.DecodeLogCursor(cursor)
	if err != nil {
		return entity.LogPage{}, Classify(err, "list logs")
	}

	page, err := l.Repo.List(ctx, filter, pageSize, c)
	if err != nil {
		return entity.LogPage{}, Classify(err, "list logs")
	}
	return page, nil
}
