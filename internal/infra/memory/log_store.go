package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LogStore struct {
	mu      sync.RWMutex
	entries []*entity.LogEntry
	now     func() time.Time
}

func NewLogStore() *LogStore {
	return &LogStore{now: time.Now}
}

func (s *LogStore) WithClock(now func() time.Time) *LogStore {
	s.now = now
	return s
}

func (s *LogStore) Append(_ context.Context, e *entity.LogEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.Timestamp = s.now().UTC()

	stored := *e
	s.entries = append(s.entries, &stored)
	return e.ID, nil
}

func (s *LogStore) List(_ context.Context, filter entity.LogFilter, pageSize int, cursor *entity.LogCursor) (entity.LogPage, error) {
	s.mu.RLock()
	matched := []*entity.LogEntry{}
	for _, e := range s.entries {
		if !matches(e, filter) {
			continue
		}
		if cursor != nil && !cursor.After(e) {
			continue
		}
		c := *e
		matched = append(matched, &c)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if len(matched) > pageSize+1 {
		matched = matched[:pageSize+1]
	}
	return entity.NewLogPage(matched, pageSize), nil
}

func matches(e *entity.LogEntry, f entity.LogFilter) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.ResourceType != "" && e.ResourceType != f.ResourceType {
		return false
	}
	return true
}
