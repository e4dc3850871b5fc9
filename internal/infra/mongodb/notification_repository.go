package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type notificationDocument struct {
	ID            string    `bson:"_id"`
	RecipientKind string    `bson:"recipient_kind"`
	RecipientKey  string    `bson:"recipient_key"`
	LeadID        string    `bson:"lead_id"`
	LeadName      string    `bson:"lead_name"`
	Title         string    `bson:"title"`
	Message       string    `bson:"message"`
	Type          string    `bson:"type"`
	IsRead        bool      `bson:"is_read"`
	Timestamp     time.Time `bson:"timestamp"`
}

func (d notificationDocument) toEntity() (*entity.Notification, error) {
	rcpt, err := entity.RecipientFromKey(d.RecipientKind, d.RecipientKey)
	if err != nil {
		return nil, fmt.Errorf("notification %s: %w", d.ID, err)
	}
	return &entity.Notification{
		ID:        d.ID,
		Recipient: rcpt,
		LeadID:    d.LeadID,
		LeadName:  d.LeadName,
		Title:     d.Title,
		Message:   d.Message,
		Type:      entity.NotificationType(d.Type),
		IsRead:    d.IsRead,
		Timestamp: d.Timestamp.UTC(),
	}, nil
}

type NotificationRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(notificationsCollection), now: time.Now}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.IsRead = false
	n.Timestamp = r.now().UTC()

	doc := notificationDocument{
		ID:            n.ID,
		RecipientKind: string(n.Recipient.Kind),
		RecipientKey:  n.Recipient.Key(),
		LeadID:        n.LeadID,
		LeadName:      n.LeadName,
		Title:         n.Title,
		Message:       n.Message,
		Type:          string(n.Type),
		Timestamp:     n.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", storeErr("create notification", err)
	}
	return n.ID, nil
}

func (r *NotificationRepository) Get(ctx context.Context, id string) (*entity.Notification, error) {
	var doc notificationDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, storeErr("get notification", err)
	}
	return doc.toEntity()
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, rcpt entity.Recipient) ([]*entity.Notification, error) {
	filter := bson.M{"recipient_kind": string(rcpt.Kind), "recipient_key": rcpt.Key()}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	defer cur.Close(ctx)

	var docs []notificationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("list notifications", err)
	}

	items := make([]*entity.Notification, 0, len(docs))
	for _, d := range docs {
		n, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return storeErr("mark notification read", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mark notification read: %w", entity.ErrNotFound)
	}
	return nil
}
