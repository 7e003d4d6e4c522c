// Package domain holds the staff and office entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role determines what a staff member may do in the dashboard.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

var knownRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RoleManager: {},
	RoleAgent:   {},
}

// IsKnownRole reports whether role is one of the defined roles.
func IsKnownRole(role Role) bool {
	_, ok := knownRoles[role]
	return ok
}

// Status marks whether a staff member can receive lead assignments.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Staff is a dashboard user who works leads.
type Staff struct {
	ID          uuid.UUID
	FullName    string
	Email       string
	Phone       string
	Role        Role
	OfficeID    *uuid.UUID
	Status      Status
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active reports whether the member can be assigned leads.
func (s Staff) Active() bool {
	return s.Status == StatusActive
}

// Office is a physical branch staff members belong to.
type Office struct {
	ID        uuid.UUID
	Name      string
	City      string
	Country   string
	CreatedAt time.Time
}
