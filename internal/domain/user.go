package domain

import (
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleStandard  Role = "standard"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// ParseRole validates a role string coming from a request or a token.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleStandard, RoleAdmin, RoleSuperuser:
		return r, true
	default:
		return "", false
	}
}

// User represents an account. Fitness data (routines, sessions,
// measurements) hangs off the user's ID and is never shared.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // Unique
	Email        string    `json:"email"`    // Unique
	PasswordHash string    `json:"-"`        // Never expose this via JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Refresh token is single use: overwritten on every login and refresh.
	RefreshToken          string     `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
}

func (u *User) IsSuperuser() bool {
	return u.Role == RoleSuperuser
}
