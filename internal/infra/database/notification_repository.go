package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.IsRead = false

	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO notifications (id, recipient_kind, recipient_key, lead_id, lead_name, title, message, type, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		RETURNING created_at
	`,
		n.ID,
		string(n.Recipient.Kind),
		n.Recipient.Key(),
		n.LeadID,
		n.LeadName,
		n.Title,
		n.Message,
		string(n.Type),
	).Scan(&n.Timestamp)
	if err != nil {
		return "", storeErr("create notification", err)
	}
	return n.ID, nil
}

const notificationColumns = `id, recipient_kind, recipient_key, lead_id, lead_name, title, message, type, is_read, created_at`

func (r *NotificationRepository) Get(ctx context.Context, id string) (*entity.Notification, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		return nil, storeErr("get notification", err)
	}
	return n, nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, rcpt entity.Recipient) ([]*entity.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_kind = $1 AND recipient_key = $2
		ORDER BY created_at DESC, id DESC
	`, string(rcpt.Kind), rcpt.Key())
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	defer rows.Close()

	items := []*entity.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, storeErr("scan notification", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list notifications", err)
	}
	return items, nil
}

// MarkRead matches the row even when it is already read, so a second call
// still succeeds.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return storeErr("mark notification read", err)
	}
	return expectOne(res, "mark notification read")
}

func scanNotification(row rowScanner) (*entity.Notification, error) {
	var n entity.Notification
	var kind, key, typ string
	err := row.Scan(&n.ID, &kind, &key, &n.LeadID, &n.LeadName, &n.Title, &n.Message, &typ, &n.IsRead, &n.Timestamp)
	if err != nil {
		return nil, err
	}
	rcpt, err := entity.RecipientFromKey(kind, key)
	if err != nil {
		return nil, err
	}
	n.Recipient = rcpt
	n.Type = entity.NotificationType(typ)
	return &n, nil
}
