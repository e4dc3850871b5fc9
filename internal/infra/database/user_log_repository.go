package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LogRepository struct {
	DB *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{DB: db}
}

func (r *LogRepository) Append(ctx context.Context, e *entity.LogEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO user_logs (id, user_id, user_name, action, resource_type, resource_id, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`,
		e.ID,
		e.UserID,
		e.UserName,
		e.Action,
		e.ResourceType,
		e.ResourceID,
		e.Description,
		e.IPAddress,
		e.UserAgent,
	).Scan(&e.Timestamp)
	if err != nil {
		return "", storeErr("append log", err)
	}
	return e.ID, nil
}

// List uses keyset pagination on (created_at, id), fetching one extra row to
// detect whether another page exists.
func (r *LogRepository) List(ctx context.Context, filter entity.LogFilter, pageSize int, cursor *entity.LogCursor) (entity.LogPage, error) {
	query, args := buildLogQuery(filter, pageSize, cursor)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return entity.LogPage{}, storeErr("list logs", err)
	}
	defer rows.Close()

	entries := []*entity.LogEntry{}
	for rows.Next() {
		var e entity.LogEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.ResourceType, &e.ResourceID,
			&e.Description, &e.IPAddress, &e.UserAgent, &e.Timestamp)
		if err != nil {
			return entity.LogPage{}, storeErr("scan log", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return entity.LogPage{}, storeErr("list logs", err)
	}
	return entity.NewLogPage(entries, pageSize), nil
}

func buildLogQuery(filter entity.LogFilter, pageSize int, cursor *entity.LogCursor) (string, []any) {
	where := []string{}
	args := []any{}
	eq := func(column, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	eq("user_id", filter.UserID)
	eq("action", filter.Action)
	eq("resource_type", filter.ResourceType)

	if cursor != nil {
		args = append(args, cursor.Timestamp, cursor.ID)
		where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT id, user_id, user_name, action, resource_type, resource_id, description,
		ip_address, user_agent, created_at FROM user_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, pageSize+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	return query, args
}
