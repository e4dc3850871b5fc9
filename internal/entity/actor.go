package entity

import "strings"

// Actor is the authenticated user as supplied by the identity provider.
// It is trusted as-is.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// DisplayName falls back to the local part of the email when no name is set.
func (a Actor) DisplayName() string {
	if strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	if local, _, ok := strings.Cut(a.Email, "@"); ok && local != "" {
		return local
	}
	if a.Email != "" {
		return a.Email
	}
	return a.ID
}

// CanAccess reports whether the actor may read or modify the lead.
func (a Actor) CanAccess(l *Lead) bool {
	return a.IsAdmin() || l.OwnedBy(a.ID)
}
