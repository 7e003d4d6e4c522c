package transport

import (
	"time"

	"github.com/google/uuid"

	"safari_crm_backend/internal/leads/domain"
)

// Request DTOs

type CreateLeadRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Email            string          `json:"email" validate:"required,email"`
	Phone            string          `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Company          string          `json:"company,omitempty" validate:"max=200"`
	Country          string          `json:"country" validate:"required,min=2,max=100"`
	Status           domain.Status   `json:"status,omitempty" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Source           domain.Source   `json:"source,omitempty" validate:"omitempty,oneof=safaribookings viator website facebook instagram google linkedin email referral manual import"`
	SourceID         string          `json:"sourceId,omitempty" validate:"max=200"`
	AssigneeID       OptionalUUID    `json:"assigneeId,omitempty" validate:"-"`
	Destinations     []string        `json:"destinations,omitempty" validate:"max=20,dive,min=1,max=100"`
	TripTypes        []string        `json:"tripTypes,omitempty" validate:"max=20,dive,min=1,max=100"`
	DurationDays     *int            `json:"durationDays" validate:"required,min=1,max=365"`
	Adults           int             `json:"adults" validate:"min=0,max=100"`
	Children         int             `json:"children" validate:"min=0,max=100"`
	Budget           *float64        `json:"budget,omitempty" validate:"omitempty,min=0"`
	TravelDate       *time.Time      `json:"travelDate,omitempty"`
	Message          string          `json:"message,omitempty" validate:"max=5000"`
	Notes            []string        `json:"notes,omitempty" validate:"max=50,dive,min=1,max=2000"`
	Tags             []string        `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
	MarketingConsent bool            `json:"marketingConsent"`
	UTMSource        string          `json:"utmSource,omitempty" validate:"max=200"`
	UTMMedium        string          `json:"utmMedium,omitempty" validate:"max=200"`
	UTMCampaign      string          `json:"utmCampaign,omitempty" validate:"max=200"`
	FollowUpAt       *time.Time      `json:"followUpAt,omitempty"`
	FollowUpNotes    string          `json:"followUpNotes,omitempty" validate:"max=2000"`
}

type UpdateLeadRequest struct {
	Name             *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email            *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string         `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Company          *string         `json:"company,omitempty" validate:"omitempty,max=200"`
	Country          *string         `json:"country,omitempty" validate:"omitempty,min=2,max=100"`
	Status           *domain.Status  `json:"status,omitempty" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Source           *domain.Source  `json:"source,omitempty" validate:"omitempty,oneof=safaribookings viator website facebook instagram google linkedin email referral manual import"`
	AssigneeID       OptionalUUID    `json:"assigneeId,omitempty" validate:"-"`
	Destinations     *[]string       `json:"destinations,omitempty" validate:"omitempty,max=20,dive,min=1,max=100"`
	TripTypes        *[]string       `json:"tripTypes,omitempty" validate:"omitempty,max=20,dive,min=1,max=100"`
	DurationDays     OptionalInt     `json:"durationDays,omitempty" validate:"-"`
	Adults           *int            `json:"adults,omitempty" validate:"omitempty,min=0,max=100"`
	Children         *int            `json:"children,omitempty" validate:"omitempty,min=0,max=100"`
	Budget           OptionalFloat64 `json:"budget,omitempty" validate:"-"`
	TravelDate       OptionalTime    `json:"travelDate,omitempty" validate:"-"`
	Message          *string         `json:"message,omitempty" validate:"omitempty,max=5000"`
	Notes            *[]string       `json:"notes,omitempty" validate:"omitempty,max=50,dive,min=1,max=2000"`
	Tags             *[]string       `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	MarketingConsent *bool           `json:"marketingConsent,omitempty"`
	UTMSource        *string         `json:"utmSource,omitempty" validate:"omitempty,max=200"`
	UTMMedium        *string         `json:"utmMedium,omitempty" validate:"omitempty,max=200"`
	UTMCampaign      *string         `json:"utmCampaign,omitempty" validate:"omitempty,max=200"`
	FollowUpAt       OptionalTime    `json:"followUpAt,omitempty" validate:"-"`
	FollowUpNotes    *string         `json:"followUpNotes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateLeadStatusRequest struct {
	Status domain.Status `json:"status" validate:"required,oneof=new contacted qualified proposal won lost"`
}

type AssignLeadRequest struct {
	AssigneeID *uuid.UUID `json:"assigneeId" validate:"omitempty"`
}

type ScheduleFollowUpRequest struct {
	FollowUpAt time.Time `json:"followUpAt" validate:"required"`
	Notes      string    `json:"notes,omitempty" validate:"max=2000"`
}

type ListLeadsRequest struct {
	Status      *domain.Status `form:"status" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Source      *domain.Source `form:"source" validate:"omitempty,oneof=safaribookings viator website facebook instagram google linkedin email referral manual import"`
	AssigneeID  *uuid.UUID     `form:"assigneeId" validate:"omitempty"`
	Search      string         `form:"search" validate:"max=100"`
	CreatedFrom *time.Time     `form:"createdFrom" time_format:"2006-01-02" validate:"-"`
	CreatedTo   *time.Time     `form:"createdTo" time_format:"2006-01-02" validate:"-"`
	Page        int            `form:"page" validate:"min=0"`
	PageSize    int            `form:"pageSize" validate:"min=0,max=200"`
	SortBy      string         `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name status travelDate"`
	SortOrder   string         `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type BoardRequest struct {
	Search string `form:"search" validate:"max=100"`
}

// Response DTOs

type LeadResponse struct {
	ID               uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone,omitempty"`
	Company          string        `json:"company,omitempty"`
	Country          string        `json:"country,omitempty"`
	Status           domain.Status `json:"status"`
	Source           domain.Source `json:"source"`
	SourceID         string        `json:"sourceId,omitempty"`
	AssignedTo       *uuid.UUID    `json:"assignedTo,omitempty"`
	Destinations     []string      `json:"destinations"`
	TripTypes        []string      `json:"tripTypes"`
	DurationDays     *int          `json:"durationDays,omitempty"`
	Adults           int           `json:"adults"`
	Children         int           `json:"children"`
	Budget           *float64      `json:"budget,omitempty"`
	TravelDate       *time.Time    `json:"travelDate,omitempty"`
	Message          string        `json:"message,omitempty"`
	Notes            []string      `json:"notes"`
	Tags             []string      `json:"tags"`
	MarketingConsent bool          `json:"marketingConsent"`
	UTMSource        string        `json:"utmSource,omitempty"`
	UTMMedium        string        `json:"utmMedium,omitempty"`
	UTMCampaign      string        `json:"utmCampaign,omitempty"`
	LastContactedAt  *time.Time    `json:"lastContactedAt,omitempty"`
	FollowUpAt       *time.Time    `json:"followUpAt,omitempty"`
	FollowUpNotes    string        `json:"followUpNotes,omitempty"`
	IsNew            bool          `json:"isNew,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

type LeadListResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type BoardColumnResponse struct {
	Status domain.Status  `json:"status"`
	Leads  []LeadResponse `json:"leads"`
}

type BoardResponse struct {
	Columns []BoardColumnResponse `json:"columns"`
	Total   int                   `json:"total"`
}

// ImportRowResult reports the outcome of a single CSV row.
type ImportRowResult struct {
	Row    int        `json:"row"`
	LeadID *uuid.UUID `json:"leadId,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type ImportReportResponse struct {
	Total   int               `json:"total"`
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}
