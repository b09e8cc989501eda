package model

import (
	"time"
)

// Roles known to the dashboard
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// User represents a dashboard user as returned by the entity store
type User struct {
	ID          string    `json:"id,omitempty" db:"id"`
	FullName    string    `json:"full_name" db:"full_name" yaml:"full_name"`
	Email       string    `json:"email" db:"email"`
	Role        string    `json:"role" db:"role"`
	CreatedDate time.Time `json:"created_date,omitzero" db:"created_date" yaml:"created_date"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
