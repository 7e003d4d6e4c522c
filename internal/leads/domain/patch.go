package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadPatch describes a partial update to a lead. A nil pointer means
// "leave unchanged". Fields that can legitimately be cleared to NULL
// carry an explicit Set flag to distinguish "absent" from "clear".
type LeadPatch struct {
	Name             *string
	Email            *string
	Phone            *string
	Company          *string
	Country          *string
	Status           *Status
	Source           *Source
	AssignedTo       *uuid.UUID
	AssignedToSet    bool
	Destinations     *[]string
	TripTypes        *[]string
	DurationDays     *int
	DurationDaysSet  bool
	Adults           *int
	Children         *int
	Budget           *float64
	BudgetSet        bool
	TravelDate       *time.Time
	TravelDateSet    bool
	Message          *string
	Notes            *[]string
	Tags             *[]string
	MarketingConsent *bool
	UTMSource        *string
	UTMMedium        *string
	UTMCampaign      *string
	LastContactedAt  *time.Time
	FollowUpAt       *time.Time
	FollowUpAtSet    bool
	FollowUpNotes    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Company == nil &&
		p.Country == nil && p.Status == nil && p.Source == nil && !p.AssignedToSet &&
		p.Destinations == nil && p.TripTypes == nil && !p.DurationDaysSet &&
		p.Adults == nil && p.Children == nil && !p.BudgetSet && !p.TravelDateSet &&
		p.Message == nil && p.Notes == nil && p.Tags == nil && p.MarketingConsent == nil &&
		p.UTMSource == nil && p.UTMMedium == nil && p.UTMCampaign == nil &&
		p.LastContactedAt == nil && !p.FollowUpAtSet && p.FollowUpNotes == nil
}

// Apply merges the patch into a copy of the lead and returns it.
// The original lead is not modified.
func (p LeadPatch) Apply(lead Lead) Lead {
	if p.Name != nil {
		lead.Name = *p.Name
	}
	if p.Email != nil {
		lead.Email = *p.Email
	}
	if p.Phone != nil {
		lead.Phone = *p.Phone
	}
	if p.Company != nil {
		lead.Company = *p.Company
	}
	if p.Country != nil {
		lead.Country = *p.Country
	}
	if p.Status != nil {
		lead.Status = *p.Status
	}
	if p.Source != nil {
		lead.Source = *p.Source
	}
	if p.AssignedToSet {
		lead.AssignedTo = p.AssignedTo
	}
	if p.Destinations != nil {
		lead.Destinations = *p.Destinations
	}
	if p.TripTypes != nil {
		lead.TripTypes = *p.TripTypes
	}
	if p.DurationDaysSet {
		lead.DurationDays = p.DurationDays
	}
	if p.Adults != nil {
		lead.Adults = *p.Adults
	}
	if p.Children != nil {
		lead.Children = *p.Children
	}
	if p.BudgetSet {
		lead.Budget = p.Budget
	}
	if p.TravelDateSet {
		lead.TravelDate = p.TravelDate
	}
	if p.Message != nil {
		lead.Message = *p.Message
	}
	if p.Notes != nil {
		lead.Notes = *p.Notes
	}
	if p.Tags != nil {
		lead.Tags = *p.Tags
	}
	if p.MarketingConsent != nil {
		lead.MarketingConsent = *p.MarketingConsent
	}
	if p.UTMSource != nil {
		lead.UTMSource = *p.UTMSource
	}
	if p.UTMMedium != nil {
		lead.UTMMedium = *p.UTMMedium
	}
	if p.UTMCampaign != nil {
		lead.UTMCampaign = *p.UTMCampaign
	}
	if p.LastContactedAt != nil {
		lead.LastContactedAt = p.LastContactedAt
	}
	if p.FollowUpAtSet {
		lead.FollowUpAt = p.FollowUpAt
	}
	if p.FollowUpNotes != nil {
		lead.FollowUpNotes = *p.FollowUpNotes
	}
	return lead
}
