package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NotificationStore struct {
	mu    sync.RWMutex
	items map[string]*entity.Notification
	seq   map[string]int
	next  int
	now   func() time.Time
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{
		items: make(map[string]*entity.Notification),
		seq:   make(map[string]int),
		now:   time.Now,
	}
}

func (s *NotificationStore) WithClock(now func() time.Time) *NotificationStore {
	s.now = now
	return s
}

func (s *NotificationStore) Create(_ context.Context, n *entity.Notification) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.IsRead = false
	n.Timestamp = s.now().UTC()

	stored := *n
	s.items[n.ID] = &stored
	s.next++
	s.seq[n.ID] = s.next
	return n.ID, nil
}

func (s *NotificationStore) Get(_ context.Context, id string) (*entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("get notification %s: %w", id, entity.ErrNotFound)
	}
	c := *n
	return &c, nil
}

// ListForRecipient returns newest first; insertion order breaks timestamp ties.
func (s *NotificationStore) ListForRecipient(_ context.Context, r entity.Recipient) ([]*entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entity.Notification{}
	for _, n := range s.items {
		if n.Recipient == r {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return s.seq[out[i].ID] > s.seq[out[j].ID]
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[id]
	if !ok {
		return fmt.Errorf("mark notification %s read: %w", id, entity.ErrNotFound)
	}
	n.IsRead = true
	return nil
}
