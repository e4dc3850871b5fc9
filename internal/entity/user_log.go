package entity

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Conventional actions; Action itself stays free-form.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionRead   = "read"
	ActionExport = "export"
	ActionImport = "import"
	ActionTest   = "test"
)

const (
	ResourceLead         = "lead"
	ResourceNotification = "notification"
	ResourceUser         = "user"
)

// LogEntry is an append-only activity record. UserName is denormalized at
// write time and is not refreshed if the user is renamed later.
type LogEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Description  string    `json:"description"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	Timestamp    time.Time `json:"timestamp"`
}

// LogFilter fields are exact-match; empty fields are ignored.
type LogFilter struct {
	UserID       string
	Action       string
	ResourceType string
}

// LogCursor marks the last entry of a page. Entries are ordered by
// (Timestamp, ID) descending, so the next page starts strictly after it.
type LogCursor struct {
	Timestamp time.Time
	ID        string
}

func CursorFor(e *LogEntry) *LogCursor {
	return &LogCursor{Timestamp: e.Timestamp, ID: e.ID}
}

// After reports whether e sorts after the cursor in newest-first order.
func (c LogCursor) After(e *LogEntry) bool {
	if e.Timestamp.Equal(c.Timestamp) {
		return e.ID < c.ID
	}
	return e.Timestamp.Before(c.Timestamp)
}

func (c LogCursor) Encode() string {
	raw := strconv.FormatInt(c.Timestamp.UnixNano(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeLogCursor(s string) (*LogCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	return &LogCursor{Timestamp: time.Unix(0, nanos).UTC(), ID: id}, nil
}

type LogPage struct {
	Items      []*LogEntry `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// NewLogPage trims a result fetched with pageSize+1 rows into a page.
func NewLogPage(rows []*LogEntry, pageSize int) LogPage {
	page := LogPage{Items: rows}
	if len(rows) > pageSize {
		page.Items = rows[:pageSize]
		page.HasMore = true
		page.NextCursor = CursorFor(page.Items[pageSize-1]).Encode()
	}
	if page.Items == nil {
		page.Items = []*LogEntry{}
	}
	return page
}

type LogRepositoryInterface interface {
	Append(ctx context.Context, e *LogEntry) (string, error)
	List(ctx context.Context, filter LogFilter, pageSize int, cursor *LogCursor) (LogPage, error)
}
