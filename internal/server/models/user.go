// Package models holds the server-side row types shared by repositories,
// services and the HTTP layer.
package models

import "time"

// Role is the closed set of account roles. The zero value is not valid;
// unknown wire strings must be rejected, never stored.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid reports whether the role is one of the predefined values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts a wire string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// User is a registered account. PasswordHash is an argon2id PHC string and
// must never leave the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}
