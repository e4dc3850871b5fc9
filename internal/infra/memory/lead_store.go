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

// LeadStore keeps leads in process memory. Reads return copies, so callers
// never observe later writes through a returned value.
type LeadStore struct {
	mu    sync.RWMutex
	leads map[string]*entity.Lead
	now   func() time.Time
}

func NewLeadStore() *LeadStore {
	return &LeadStore{leads: make(map[string]*entity.Lead), now: time.Now}
}

// WithClock replaces the store clock; used by tests.
func (s *LeadStore) WithClock(now func() time.Time) *LeadStore {
	s.now = now
	return s
}

func (s *LeadStore) Create(_ context.Context, input entity.LeadInput, ownerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC()
	lead := &entity.Lead{
		ID:                        uuid.New().String(),
		Name:                      input.Name,
		Company:                   input.Company,
		Email:                     input.Email,
		Phone:                     input.Phone,
		Address:                   input.Address,
		ProjectRequirementTitle:   input.ProjectRequirementTitle,
		ProjectRequirementDetails: input.ProjectRequirementDetails,
		Stage:                     entity.StageNew,
		Value:                     input.Value,
		AssignedTo:                ownerID,
		CreatedAt:                 ts,
		UpdatedAt:                 ts,
		Notes:                     []entity.Note{},
	}
	s.leads[lead.ID] = lead
	return lead.ID, nil
}

func (s *LeadStore) Get(_ context.Context, id string) (*entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, fmt.Errorf("get lead %s: %w", id, entity.ErrNotFound)
	}
	return cloneLead(lead), nil
}

func (s *LeadStore) ListByOwner(_ context.Context, ownerID string) ([]*entity.Lead, error) {
	return s.list(func(l *entity.Lead) bool { return l.AssignedTo == ownerID }), nil
}

func (s *LeadStore) ListAll(_ context.Context) ([]*entity.Lead, error) {
	return s.list(func(*entity.Lead) bool { return true }), nil
}

func (s *LeadStore) list(keep func(*entity.Lead) bool) []*entity.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entity.Lead{}
	for _, l := range s.leads {
		if keep(l) {
			out = append(out, cloneLead(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *LeadStore) Update(_ context.Context, id string, patch entity.LeadPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return fmt.Errorf("update lead %s: %w", id, entity.ErrNotFound)
	}
	if patch.Stage != nil && !patch.Stage.Valid() {
		return fmt.Errorf("update lead %s: %w: unknown stage %q", id, entity.ErrValidation, string(*patch.Stage))
	}

	updated := patch.Apply(*lead)
	updated.UpdatedAt = s.now().UTC()
	s.leads[id] = &updated
	return nil
}

func (s *LeadStore) AppendNote(_ context.Context, id string, note entity.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return fmt.Errorf("append note to lead %s: %w", id, entity.ErrNotFound)
	}

	ts := s.now().UTC()
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = ts

	notes := make([]entity.Note, len(lead.Notes), len(lead.Notes)+1)
	copy(notes, lead.Notes)
	lead.Notes = append(notes, note)
	lead.UpdatedAt = ts
	return nil
}

func (s *LeadStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[id]; !ok {
		return fmt.Errorf("delete lead %s: %w", id, entity.ErrNotFound)
	}
	delete(s.leads, id)
	return nil
}

func (s *LeadStore) CountByStage(_ context.Context) (map[entity.Stage]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[entity.Stage]int, len(entity.Stages()))
	for _, st := range entity.Stages() {
		counts[st] = 0
	}
	for _, l := range s.leads {
		counts[l.Stage]++
	}
	return counts, nil
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	c.Notes = make([]entity.Note, len(l.Notes))
	copy(c.Notes, l.Notes)
	return &c
}
