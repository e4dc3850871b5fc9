package entity

import (
	"context"
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

type RecipientKind string

const (
	RecipientIndividual RecipientKind = "individual"
	RecipientRole       RecipientKind = "role"
)

// Recipient targets either one user or everyone holding a role. Role
// broadcasts are resolved by the reader, not fanned out on write.
type Recipient struct {
	Kind   RecipientKind `json:"kind"`
	UserID string        `json:"user_id,omitempty"`
	Role   Role          `json:"role,omitempty"`
}

func Individual(userID string) Recipient {
	return Recipient{Kind: RecipientIndividual, UserID: userID}
}

func RoleBroadcast(role Role) Recipient {
	return Recipient{Kind: RecipientRole, Role: role}
}

var AdminBroadcast = RoleBroadcast(RoleAdmin)

// Key is the single value persisted next to Kind (user id or role name).
func (r Recipient) Key() string {
	if r.Kind == RecipientRole {
		return string(r.Role)
	}
	return r.UserID
}

// RecipientFromKey rebuilds a Recipient from its persisted form.
func RecipientFromKey(kind, key string) (Recipient, error) {
	switch RecipientKind(kind) {
	case RecipientIndividual:
		return Individual(key), nil
	case RecipientRole:
		role, err := ParseRole(key)
		if err != nil {
			return Recipient{}, err
		}
		return RoleBroadcast(role), nil
	}
	return Recipient{}, fmt.Errorf("%w: unknown recipient kind %q", ErrValidation, kind)
}

type NotificationType string

const (
	NotificationNewLead      NotificationType = "new_lead"
	NotificationStatusChange NotificationType = "status_change"
	NotificationLeadUpdate   NotificationType = "lead_update"
)

type Notification struct {
	ID        string           `json:"id"`
	Recipient Recipient        `json:"recipient"`
	LeadID    string           `json:"lead_id"`
	LeadName  string           `json:"lead_name"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	Timestamp time.Time        `json:"timestamp"`
}

type NotificationRepositoryInterface interface {
	// Create stores n with IsRead=false and a store-assigned Timestamp.
	Create(ctx context.Context, n *Notification) (string, error)
	Get(ctx context.Context, id string) (*Notification, error)
	ListForRecipient(ctx context.Context, r Recipient) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
}
