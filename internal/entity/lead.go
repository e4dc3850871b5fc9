package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	Company                   string    `json:"company"`
	Email                     string    `json:"email"`
	Phone                     string    `json:"phone"`
	Address                   string    `json:"address"`
	ProjectRequirementTitle   string    `json:"project_requirement_title"`
	ProjectRequirementDetails string    `json:"project_requirement_details"`
	Stage                     Stage     `json:"stage"`
	Value                     float64   `json:"value"`
	AssignedTo                string    `json:"assigned_to"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
	Notes                     []Note    `json:"notes"`
}

// Note is immutable once appended to a lead.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote prepares a note for AppendNote. CreatedAt is stamped by the store.
func NewNote(content, createdBy string) Note {
	return Note{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedBy: createdBy,
	}
}

// LeadInput holds creation fields. New leads always start at StageNew.
type LeadInput struct {
	Name                      string  `json:"name"`
	Company                   string  `json:"company"`
	Email                     string  `json:"email"`
	Phone                     string  `json:"phone"`
	Address                   string  `json:"address"`
	ProjectRequirementTitle   string  `json:"project_requirement_title"`
	ProjectRequirementDetails string  `json:"project_requirement_details"`
	Value                     float64 `json:"value,omitempty"`
}

// LeadPatch is a partial update; nil fields are left untouched.
type LeadPatch struct {
	Name                      *string  `json:"name,omitempty"`
	Company                   *string  `json:"company,omitempty"`
	Email                     *string  `json:"email,omitempty"`
	Phone                     *string  `json:"phone,omitempty"`
	Address                   *string  `json:"address,omitempty"`
	ProjectRequirementTitle   *string  `json:"project_requirement_title,omitempty"`
	ProjectRequirementDetails *string  `json:"project_requirement_details,omitempty"`
	Stage                     *Stage   `json:"stage,omitempty"`
	Value                     *float64 `json:"value,omitempty"`
}

func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Company == nil && p.Email == nil && p.Phone == nil &&
		p.Address == nil && p.ProjectRequirementTitle == nil && p.ProjectRequirementDetails == nil &&
		p.Stage == nil && p.Value == nil
}

// Apply returns a copy of l with the patch applied. Notes are shared, not copied.
func (p LeadPatch) Apply(l Lead) Lead {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.ProjectRequirementTitle != nil {
		l.ProjectRequirementTitle = *p.ProjectRequirementTitle
	}
	if p.ProjectRequirementDetails != nil {
		l.ProjectRequirementDetails = *p.ProjectRequirementDetails
	}
	if p.Stage != nil {
		l.Stage = *p.Stage
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	return l
}

// FieldValue is one entry of the audited field set.
type FieldValue struct {
	Label string
	Value string
}

// WatchedFields returns the fields audited on edit, in a fixed order.
func (l Lead) WatchedFields() []FieldValue {
	return []FieldValue{
		{Label: "Name", Value: l.Name},
		{Label: "Company", Value: l.Company},
		{Label: "Email", Value: l.Email},
		{Label: "Phone", Value: l.Phone},
		{Label: "Value", Value: fmt.Sprintf("%.2f", l.Value)},
	}
}

func (l Lead) OwnedBy(userID string) bool {
	return l.AssignedTo == userID
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, input LeadInput, ownerID string) (string, error)
	Get(ctx context.Context, id string) (*Lead, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Lead, error)
	ListAll(ctx context.Context) ([]*Lead, error)
	Update(ctx context.Context, id string, patch LeadPatch) error
	AppendNote(ctx context.Context, id string, note Note) error
	Delete(ctx context.Context, id string) error
	CountByStage(ctx context.Context) (map[Stage]int, error)
}
