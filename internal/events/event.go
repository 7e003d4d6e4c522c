// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"safari_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID  `json:"leadId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Source       string     `json:"source"`
	Destinations []string   `json:"destinations,omitempty"`
	AssignedTo   *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy    uuid.UUID  `json:"createdBy"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when a lead moves through the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadAssigned is published when a lead is assigned to a staff member.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	LeadName      string     `json:"leadName"`
	PreviousStaff *uuid.UUID `json:"previousStaff,omitempty"`
	NewStaff      *uuid.UUID `json:"newStaff,omitempty"`
	AssignedBy    uuid.UUID  `json:"assignedBy"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadDeleted is published when a lead is removed.
type LeadDeleted struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	DeletedBy uuid.UUID `json:"deletedBy"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// LeadsImported is published after a bulk CSV import completes.
type LeadsImported struct {
	BaseEvent
	Total      int       `json:"total"`
	Created    int       `json:"created"`
	Failed     int       `json:"failed"`
	ImportedBy uuid.UUID `json:"importedBy"`
}

func (e LeadsImported) EventName() string { return "leads.import.completed" }

// =============================================================================
// Staff Domain Events
// =============================================================================

// StaffCreated is published when a new staff member is registered.
type StaffCreated struct {
	BaseEvent
	StaffID  uuid.UUID `json:"staffId"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (e StaffCreated) EventName() string { return "staff.member.created" }
