package models

import "github.com/google/uuid"

// Role is the authorization role attached to an authenticated actor.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// Actor is the already-authenticated identity attached to write requests
// by the upstream auth layer. This service trusts it and performs no
// token validation of its own.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsAdmin returns true for the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
