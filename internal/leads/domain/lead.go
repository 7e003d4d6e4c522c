// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusProposal  Status = "proposal"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// PipelineOrder lists statuses in their natural pipeline progression.
// Transitions are not restricted to this order; agents move leads
// freely, including backwards and straight to a terminal status.
var PipelineOrder = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposal,
	StatusWon,
	StatusLost,
}

// BoardStatuses are the kanban columns, in display order. Proposal and
// lost leads are intentionally absent from the board view.
var BoardStatuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusWon,
}

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusProposal:  {},
	StatusWon:       {},
	StatusLost:      {},
}

// IsKnownStatus reports whether the status is part of the pipeline.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// IsTerminalStatus reports whether a lead has reached the end of the pipeline.
func IsTerminalStatus(status Status) bool {
	return status == StatusWon || status == StatusLost
}

// Source identifies where an inquiry came from.
type Source string

const (
	SourceSafariBookings Source = "safaribookings"
	SourceViator         Source = "viator"
	SourceWebsite        Source = "website"
	SourceFacebook       Source = "facebook"
	SourceInstagram      Source = "instagram"
	SourceGoogle         Source = "google"
	SourceLinkedIn       Source = "linkedin"
	SourceEmail          Source = "email"
	SourceReferral       Source = "referral"
	SourceManual         Source = "manual"
	SourceImport         Source = "import"
)

var knownSources = map[Source]struct{}{
	SourceSafariBookings: {},
	SourceViator:         {},
	SourceWebsite:        {},
	SourceFacebook:       {},
	SourceInstagram:      {},
	SourceGoogle:         {},
	SourceLinkedIn:       {},
	SourceEmail:          {},
	SourceReferral:       {},
	SourceManual:         {},
	SourceImport:         {},
}

// IsKnownSource reports whether the source is one of the recognized channels.
func IsKnownSource(source Source) bool {
	_, ok := knownSources[source]
	return ok
}

// Lead is a travel inquiry moving through the sales pipeline.
// Message is the customer's own inquiry text; Notes are internal
// remarks added by staff.
type Lead struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Phone            string
	Company          string
	Country          string
	Status           Status
	Source           Source
	SourceID         string
	AssignedTo       *uuid.UUID
	Destinations     []string
	TripTypes        []string
	DurationDays     *int
	Adults           int
	Children         int
	Budget           *float64
	TravelDate       *time.Time
	Message          string
	Notes            []string
	Tags             []string
	MarketingConsent bool
	UTMSource        string
	UTMMedium        string
	UTMCampaign      string
	LastContactedAt  *time.Time
	FollowUpAt       *time.Time
	FollowUpNotes    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Travelers returns the total party size.
func (l Lead) Travelers() int {
	return l.Adults + l.Children
}
