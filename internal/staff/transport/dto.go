// Package transport defines request and response DTOs for the staff module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"safari_crm_backend/internal/staff/domain"
)

// CreateStaffRequest creates a new staff member.
type CreateStaffRequest struct {
	FullName string      `json:"fullName" validate:"required,min=2,max=120"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone" validate:"omitempty,max=32"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=admin manager agent"`
	OfficeID *uuid.UUID  `json:"officeId"`
}

// UpdateStaffRequest partially updates a staff member. Absent fields
// are left untouched; officeId accepts null to unassign.
type UpdateStaffRequest struct {
	FullName *string      `json:"fullName" validate:"omitempty,min=2,max=120"`
	Phone    *string      `json:"phone" validate:"omitempty,max=32"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=admin manager agent"`
	OfficeID OptionalUUID `json:"officeId"`
}

// SetStaffStatusRequest activates or deactivates a staff member.
type SetStaffStatusRequest struct {
	Status domain.Status `json:"status" validate:"required,oneof=active inactive"`
}

// ListStaffRequest filters the staff listing.
type ListStaffRequest struct {
	OfficeID *uuid.UUID     `form:"officeId"`
	Status   *domain.Status `form:"status" validate:"omitempty,oneof=active inactive"`
	Role     *domain.Role   `form:"role" validate:"omitempty,oneof=admin manager agent"`
}

// CreateOfficeRequest creates a new office.
type CreateOfficeRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	City    string `json:"city" validate:"omitempty,max=120"`
	Country string `json:"country" validate:"omitempty,max=120"`
}

// StaffResponse is the API shape of a staff member.
type StaffResponse struct {
	ID          uuid.UUID  `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	OfficeID    *uuid.UUID `json:"officeId"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// OfficeResponse is the API shape of an office.
type OfficeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToStaffResponse maps a domain staff member to its API shape.
func ToStaffResponse(s domain.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		FullName:    s.FullName,
		Email:       s.Email,
		Phone:       s.Phone,
		Role:        string(s.Role),
		OfficeID:    s.OfficeID,
		Status:      string(s.Status),
		LastLoginAt: s.LastLoginAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToStaffResponses maps a slice of staff members.
func ToStaffResponses(members []domain.Staff) []StaffResponse {
	out := make([]StaffResponse, 0, len(members))
	for _, member := range members {
		out = append(out, ToStaffResponse(member))
	}
	return out
}

// ToOfficeResponse maps a domain office to its API shape.
func ToOfficeResponse(o domain.Office) OfficeResponse {
	return OfficeResponse{
		ID:        o.ID,
		Name:      o.Name,
		City:      o.City,
		Country:   o.Country,
		CreatedAt: o.CreatedAt,
	}
}
