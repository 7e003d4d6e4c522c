package management

import (
	"github.com/google/uuid"

	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/internal/leads/transport"
	"safari_crm_backend/internal/leads/view"
)

// ToLeadResponse converts a domain lead to its API representation.
// highlighted marks leads still inside the new-lead highlight window.
func ToLeadResponse(lead domain.Lead, highlighted map[uuid.UUID]bool) transport.LeadResponse {
	destinations := lead.Destinations
	if destinations == nil {
		destinations = []string{}
	}
	tripTypes := lead.TripTypes
	if tripTypes == nil {
		tripTypes = []string{}
	}
	notes := lead.Notes
	if notes == nil {
		notes = []string{}
	}
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}

	return transport.LeadResponse{
		ID:               lead.ID,
		Name:             lead.Name,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Company:          lead.Company,
		Country:          lead.Country,
		Status:           lead.Status,
		Source:           lead.Source,
		SourceID:         lead.SourceID,
		AssignedTo:       lead.AssignedTo,
		Destinations:     destinations,
		TripTypes:        tripTypes,
		DurationDays:     lead.DurationDays,
		Adults:           lead.Adults,
		Children:         lead.Children,
		Budget:           lead.Budget,
		TravelDate:       lead.TravelDate,
		Message:          lead.Message,
		Notes:            notes,
		Tags:             tags,
		MarketingConsent: lead.MarketingConsent,
		UTMSource:        lead.UTMSource,
		UTMMedium:        lead.UTMMedium,
		UTMCampaign:      lead.UTMCampaign,
		LastContactedAt:  lead.LastContactedAt,
		FollowUpAt:       lead.FollowUpAt,
		FollowUpNotes:    lead.FollowUpNotes,
		IsNew:            highlighted[lead.ID],
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

// ToLeadResponses converts a slice of leads, carrying highlight markers.
func ToLeadResponses(leads []domain.Lead, highlighted map[uuid.UUID]bool) []transport.LeadResponse {
	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead, highlighted))
	}
	return out
}

// ToBoardResponse converts kanban columns to their API representation.
func ToBoardResponse(columns []view.Column, highlighted map[uuid.UUID]bool) transport.BoardResponse {
	out := transport.BoardResponse{
		Columns: make([]transport.BoardColumnResponse, 0, len(columns)),
	}
	for _, column := range columns {
		out.Columns = append(out.Columns, transport.BoardColumnResponse{
			Status: column.Status,
			Leads:  ToLeadResponses(column.Leads, highlighted),
		})
		out.Total += len(column.Leads)
	}
	return out
}

func highlightSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
