// Package view derives read-side projections (filtered lists, the
// kanban board) from a collection snapshot. Pure functions, no state.
package view

import (
	"strings"

	"safari_crm_backend/internal/leads/domain"
)

// MatchesSearch reports whether the lead matches the query with a
// case-insensitive substring check over name, email and company.
// An empty query matches everything.
func MatchesSearch(lead domain.Lead, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(lead.Name), needle) ||
		strings.Contains(strings.ToLower(lead.Email), needle) ||
		strings.Contains(strings.ToLower(lead.Company), needle)
}

// FilterBySearch returns the leads matching the query, preserving the
// input ordering.
func FilterBySearch(leads []domain.Lead, query string) []domain.Lead {
	if query == "" {
		return leads
	}
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if MatchesSearch(lead, query) {
			out = append(out, lead)
		}
	}
	return out
}

// Column is one kanban lane.
type Column struct {
	Status domain.Status
	Leads  []domain.Lead
}

// BoardColumns groups leads into the fixed board lanes, preserving the
// input ordering within each lane. Leads whose status has no lane
// (proposal, lost) are omitted.
func BoardColumns(leads []domain.Lead) []Column {
	byStatus := make(map[domain.Status][]domain.Lead, len(domain.BoardStatuses))
	for _, status := range domain.BoardStatuses {
		byStatus[status] = make([]domain.Lead, 0)
	}

	for _, lead := range leads {
		if lane, ok := byStatus[lead.Status]; ok {
			byStatus[lead.Status] = append(lane, lead)
		}
	}

	columns := make([]Column, 0, len(domain.BoardStatuses))
	for _, status := range domain.BoardStatuses {
		columns = append(columns, Column{Status: status, Leads: byStatus[status]})
	}
	return columns
}
