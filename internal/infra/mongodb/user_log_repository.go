package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type logDocument struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	UserName     string    `bson:"user_name"`
	Action       string    `bson:"action"`
	ResourceType string    `bson:"resource_type"`
	ResourceID   string    `bson:"resource_id,omitempty"`
	Description  string    `bson:"description"`
	IPAddress    string    `bson:"ip_address"`
	UserAgent    string    `bson:"user_agent"`
	Timestamp    time.Time `bson:"timestamp"`
}

type LogRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewLogRepository(db *mongo.Database) *LogRepository {
	return &LogRepository{coll: db.Collection(logsCollection), now: time.Now}
}

func (r *LogRepository) Append(ctx context.Context, e *entity.LogEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	// BSON dates hold milliseconds; truncate so cursors round-trip exactly.
	e.Timestamp = r.now().UTC().Truncate(time.Millisecond)

	doc := logDocument{
		ID:           e.ID,
		UserID:       e.UserID,
		UserName:     e.UserName,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Description:  e.Description,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		Timestamp:    e.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", storeErr("append log", err)
	}
	return e.ID, nil
}

func (r *LogRepository) List(ctx context.Context, filter entity.LogFilter, pageSize int, cursor *entity.LogCursor) (entity.LogPage, error) {
	query := logQuery(filter, cursor)
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(pageSize + 1))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return entity.LogPage{}, storeErr("list logs", err)
	}
	defer cur.Close(ctx)

	var docs []logDocument
	if err := cur.All(ctx, &docs); err != nil {
		return entity.LogPage{}, storeErr("list logs", err)
	}

	entries := make([]*entity.LogEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, &entity.LogEntry{
			ID:           d.ID,
			UserID:       d.UserID,
			UserName:     d.UserName,
			Action:       d.Action,
			ResourceType: d.ResourceType,
			ResourceID:   d.ResourceID,
			Description:  d.Description,
			IPAddress:    d.IPAddress,
			UserAgent:    d.UserAgent,
			Timestamp:    d.Timestamp.UTC(),
		})
	}
	return entity.NewLogPage(entries, pageSize), nil
}

// logQuery matches the filter and, with a cursor, only entries strictly older
// than it in (timestamp, _id) order.
func logQuery(filter entity.LogFilter, cursor *entity.LogCursor) bson.M {
	and := bson.A{}
	if filter.UserID != "" {
		and = append(and, bson.M{"user_id": filter.UserID})
	}
	if filter.Action != "" {
		and = append(and, bson.M{"action": filter.Action})
	}
	if filter.ResourceType != "" {
		and = append(and, bson.M{"resource_type": filter.ResourceType})
	}
	if cursor != nil {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"timestamp": bson.M{"$lt": cursor.Timestamp}},
			bson.M{"timestamp": cursor.Timestamp, "_id": bson.M{"$lt": cursor.ID}},
		}})
	}

	query := bson.M{}
	if len(and) > 0 {
		query["$and"] = and
	}
	return query
}
