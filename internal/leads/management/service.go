// Package management handles lead lifecycle operations. It is the
// write side of the leads module: every mutation goes to the store
// first and is reflected into the caller's board session only after
// the store confirms it.
package management

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/internal/leads/collection"
	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/internal/leads/repository"
	"safari_crm_backend/internal/leads/transport"
	"safari_crm_backend/internal/leads/view"
	"safari_crm_backend/platform/apperr"
	"safari_crm_backend/platform/logger"
	"safari_crm_backend/platform/phone"
)

// staleLeadMessage is surfaced when a mutation targets a lead the
// store no longer has. The lead is dropped from the session so the
// caller's next read is consistent.
const staleLeadMessage = "this lead was modified or removed by another user"

// Store defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Store interface {
	repository.LeadReader
	repository.LeadWriter
}

// Service handles lead management operations.
type Service struct {
	store    Store
	sessions *collection.Manager
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new lead management service.
func New(store Store, sessions *collection.Manager, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, sessions: sessions, bus: bus, log: log}
}

// Load refreshes the caller's board session from the store and returns
// the working set. When a concurrent refresh finishes first, the slow
// result is discarded and the newer working set is returned instead.
func (s *Service) Load(ctx context.Context, actorID uuid.UUID) ([]transport.LeadResponse, error) {
	col := s.sessions.Get(actorID)

	leads, err := col.Load(ctx, s.store)
	if errors.Is(err, collection.ErrSuperseded) {
		leads = col.Snapshot()
	} else if err != nil {
		return nil, s.storeError("load leads", err)
	}

	return ToLeadResponses(leads, highlightSet(col.HighlightedIDs())), nil
}

// List serves the caller's working set, filtered by search and
// paginated. The initial access loads the session lazily.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	col, err := s.loadedSession(ctx, actorID)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	leads := view.FilterBySearch(col.Snapshot(), req.Search)
	leads = filterList(leads, req)
	total := len(leads)

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return transport.LeadListResponse{
		Items:    ToLeadResponses(leads[start:end], highlightSet(col.HighlightedIDs())),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Board serves the kanban projection of the caller's working set.
func (s *Service) Board(ctx context.Context, actorID uuid.UUID, req transport.BoardRequest) (transport.BoardResponse, error) {
	col, err := s.loadedSession(ctx, actorID)
	if err != nil {
		return transport.BoardResponse{}, err
	}

	leads := view.FilterBySearch(col.Snapshot(), req.Search)
	columns := view.BoardColumns(leads)
	return ToBoardResponse(columns, highlightSet(col.HighlightedIDs())), nil
}

// Query runs a server-side listing straight against the store,
// bypassing board sessions. Used for admin reporting.
func (s *Service) Query(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	params := repository.ListParams{
		Status:        req.Status,
		Source:        req.Source,
		AssignedTo:    req.AssigneeID,
		Search:        req.Search,
		CreatedAtFrom: req.CreatedFrom,
		CreatedAtTo:   req.CreatedTo,
		Offset:        (page - 1) * pageSize,
		Limit:         pageSize,
		SortBy:        mapSortField(req.SortBy),
		SortOrder:     req.SortOrder,
	}

	leads, total, err := s.store.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, s.storeError("query leads", err)
	}

	return transport.LeadListResponse{
		Items:    ToLeadResponses(leads, nil),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetByID retrieves a single lead, preferring the session copy.
func (s *Service) GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (transport.LeadResponse, error) {
	col := s.sessions.Get(actorID)
	if lead, ok := col.Get(id); ok {
		return ToLeadResponse(lead, highlightSet(col.HighlightedIDs())), nil
	}

	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, s.storeError("get lead", err)
	}
	return ToLeadResponse(lead, nil), nil
}

// Create persists a new lead and inserts it at the front of the
// caller's working set once the store confirms.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	req.Phone = phone.NormalizeE164(req.Phone)

	params := repository.CreateLeadParams{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Company:          req.Company,
		Country:          req.Country,
		Status:           req.Status,
		Source:           req.Source,
		SourceID:         req.SourceID,
		Destinations:     req.Destinations,
		TripTypes:        req.TripTypes,
		DurationDays:     req.DurationDays,
		Adults:           req.Adults,
		Children:         req.Children,
		Budget:           req.Budget,
		TravelDate:       req.TravelDate,
		Message:          req.Message,
		Notes:            req.Notes,
		Tags:             req.Tags,
		MarketingConsent: req.MarketingConsent,
		UTMSource:        req.UTMSource,
		UTMMedium:        req.UTMMedium,
		UTMCampaign:      req.UTMCampaign,
		FollowUpAt:       req.FollowUpAt,
		FollowUpNotes:    req.FollowUpNotes,
	}
	if req.AssigneeID.Set {
		params.AssignedTo = req.AssigneeID.Value
	}

	lead, err := s.store.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, s.storeError("create lead", err)
	}

	col := s.sessions.Get(actorID)
	col.Insert(lead)

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		Name:         lead.Name,
		Email:        lead.Email,
		Source:       string(lead.Source),
		Destinations: lead.Destinations,
		AssignedTo:   lead.AssignedTo,
		CreatedBy:    actorID,
	})

	return ToLeadResponse(lead, highlightSet(col.HighlightedIDs())), nil
}

// Update applies a partial update. The session copy changes only after
// the store confirms; a vanished lead is dropped from the session.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	patch := buildPatch(req)
	if patch.IsEmpty() {
		return s.GetByID(ctx, actorID, id)
	}

	lead, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return transport.LeadResponse{}, s.reconcileError(actorID, id, "update lead", err)
	}

	s.reflect(actorID, lead)
	return ToLeadResponse(lead, nil), nil
}

// UpdateStatus moves a lead through the pipeline. Any transition
// between known statuses is allowed, including backwards moves.
func (s *Service) UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, status domain.Status) (transport.LeadResponse, error) {
	if !domain.IsKnownStatus(status) {
		return transport.LeadResponse{}, apperr.Validation("unknown lead status")
	}

	col := s.sessions.Get(actorID)
	oldStatus := domain.Status("")
	if current, ok := col.Get(id); ok {
		oldStatus = current.Status
	}

	lead, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return transport.LeadResponse{}, s.reconcileError(actorID, id, "update lead status", err)
	}

	s.reflect(actorID, lead)

	if oldStatus != lead.Status {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			OldStatus: string(oldStatus),
			NewStatus: string(lead.Status),
			ChangedBy: actorID,
		})
	}

	return ToLeadResponse(lead, nil), nil
}

// Assign hands the lead to a staff member, or unassigns it when
// assigneeID is nil.
func (s *Service) Assign(ctx context.Context, actorID uuid.UUID, id uuid.UUID, assigneeID *uuid.UUID) (transport.LeadResponse, error) {
	col := s.sessions.Get(actorID)
	var previous *uuid.UUID
	if current, ok := col.Get(id); ok {
		previous = current.AssignedTo
	}

	lead, err := s.store.Update(ctx, id, domain.LeadPatch{
		AssignedTo:    assigneeID,
		AssignedToSet: true,
	})
	if err != nil {
		return transport.LeadResponse{}, s.reconcileError(actorID, id, "assign lead", err)
	}

	s.reflect(actorID, lead)

	if !equalUUIDPtrs(previous, lead.AssignedTo) {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        lead.ID,
			LeadName:      lead.Name,
			PreviousStaff: previous,
			NewStaff:      lead.AssignedTo,
			AssignedBy:    actorID,
		})
	}

	return ToLeadResponse(lead, nil), nil
}

// Delete soft-deletes the lead. The session copy is removed whether or
// not the store still had it; deleting an already-deleted lead reports
// the stale state to the caller.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	s.sessions.Get(actorID).Remove(id)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(staleLeadMessage)
		}
		return s.storeError("delete lead", err)
	}

	s.bus.Publish(ctx, events.LeadDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		DeletedBy: actorID,
	})
	return nil
}

// MarkContacted stamps the lead as contacted now and advances a fresh
// lead to the contacted status.
func (s *Service) MarkContacted(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (transport.LeadResponse, error) {
	now := time.Now()
	patch := domain.LeadPatch{LastContactedAt: &now}

	col := s.sessions.Get(actorID)
	if current, ok := col.Get(id); ok && current.Status == domain.StatusNew {
		contacted := domain.StatusContacted
		patch.Status = &contacted
	}

	lead, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return transport.LeadResponse{}, s.reconcileError(actorID, id, "mark lead contacted", err)
	}

	s.reflect(actorID, lead)
	return ToLeadResponse(lead, nil), nil
}

// ScheduleFollowUp sets the follow-up reminder timestamp and,
// optionally, a note describing what the follow-up is about.
func (s *Service) ScheduleFollowUp(ctx context.Context, actorID uuid.UUID, id uuid.UUID, at time.Time, notes string) (transport.LeadResponse, error) {
	if at.Before(time.Now()) {
		return transport.LeadResponse{}, apperr.Validation("follow-up must be in the future")
	}

	patch := domain.LeadPatch{
		FollowUpAt:    &at,
		FollowUpAtSet: true,
	}
	if notes != "" {
		patch.FollowUpNotes = &notes
	}

	lead, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return transport.LeadResponse{}, s.reconcileError(actorID, id, "schedule follow-up", err)
	}

	s.reflect(actorID, lead)
	return ToLeadResponse(lead, nil), nil
}

// Insert mirrors an externally created lead (e.g. a CSV import row)
// into the caller's session.
func (s *Service) Insert(actorID uuid.UUID, lead domain.Lead) {
	s.sessions.Get(actorID).Insert(lead)
}

// WorkingSet returns the caller's current leads in session order,
// loading the session on first access. Used by the CSV export.
func (s *Service) WorkingSet(ctx context.Context, actorID uuid.UUID) ([]domain.Lead, error) {
	col, err := s.loadedSession(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return col.Snapshot(), nil
}

// loadedSession returns the caller's session, performing the initial
// load on first access.
func (s *Service) loadedSession(ctx context.Context, actorID uuid.UUID) (*collection.Collection, error) {
	col := s.sessions.Get(actorID)
	if col.Loaded() {
		return col, nil
	}

	if _, err := col.Load(ctx, s.store); err != nil && !errors.Is(err, collection.ErrSuperseded) {
		return nil, s.storeError("load leads", err)
	}
	return col, nil
}

// reflect pushes a confirmed store state into the caller's session.
// Leads not yet in the session (e.g. created elsewhere) are inserted.
func (s *Service) reflect(actorID uuid.UUID, lead domain.Lead) {
	col := s.sessions.Get(actorID)
	if err := col.Update(lead); errors.Is(err, collection.ErrNotInCollection) {
		if col.Loaded() {
			col.Insert(lead)
		}
	}
}

// reconcileError maps a failed mutation. A lead missing from the store
// is also dropped from the session so the working set stays honest.
func (s *Service) reconcileError(actorID uuid.UUID, id uuid.UUID, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		s.sessions.Get(actorID).Remove(id)
		return apperr.NotFound(staleLeadMessage)
	}
	return s.storeError(op, err)
}

// storeError classifies a store failure for the HTTP layer. Network
// level failures are retryable and map to 503; everything else is an
// internal fault.
func (s *Service) storeError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}

	s.log.StoreError(op, err)

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUnavailable, "the backing store is unreachable, try again", err)
	}
	return apperr.Wrap(apperr.KindInternal, "internal error", err)
}

func buildPatch(req transport.UpdateLeadRequest) domain.LeadPatch {
	patch := domain.LeadPatch{
		Name:             req.Name,
		Email:            req.Email,
		Company:          req.Company,
		Country:          req.Country,
		Status:           req.Status,
		Source:           req.Source,
		Destinations:     req.Destinations,
		TripTypes:        req.TripTypes,
		Adults:           req.Adults,
		Children:         req.Children,
		Message:          req.Message,
		Notes:            req.Notes,
		Tags:             req.Tags,
		FollowUpNotes:    req.FollowUpNotes,
		MarketingConsent: req.MarketingConsent,
		UTMSource:        req.UTMSource,
		UTMMedium:        req.UTMMedium,
		UTMCampaign:      req.UTMCampaign,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		patch.Phone = &normalized
	}
	if req.AssigneeID.Set {
		patch.AssignedTo = req.AssigneeID.Value
		patch.AssignedToSet = true
	}
	if req.DurationDays.Set {
		patch.DurationDays = req.DurationDays.Value
		patch.DurationDaysSet = true
	}
	if req.Budget.Set {
		patch.Budget = req.Budget.Value
		patch.BudgetSet = true
	}
	if req.TravelDate.Set {
		patch.TravelDate = req.TravelDate.Value
		patch.TravelDateSet = true
	}
	if req.FollowUpAt.Set {
		patch.FollowUpAt = req.FollowUpAt.Value
		patch.FollowUpAtSet = true
	}
	return patch
}

func filterList(leads []domain.Lead, req transport.ListLeadsRequest) []domain.Lead {
	if req.Status == nil && req.Source == nil && req.AssigneeID == nil &&
		req.CreatedFrom == nil && req.CreatedTo == nil {
		return leads
	}
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if req.Status != nil && lead.Status != *req.Status {
			continue
		}
		if req.Source != nil && lead.Source != *req.Source {
			continue
		}
		if req.AssigneeID != nil && !equalUUIDPtrs(lead.AssignedTo, req.AssigneeID) {
			continue
		}
		if req.CreatedFrom != nil && lead.CreatedAt.Before(*req.CreatedFrom) {
			continue
		}
		if req.CreatedTo != nil && lead.CreatedAt.After(*req.CreatedTo) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func mapSortField(sortBy string) string {
	switch sortBy {
	case "createdAt":
		return "created_at"
	case "updatedAt":
		return "updated_at"
	case "travelDate":
		return "travel_date"
	default:
		return sortBy
	}
}

func equalUUIDPtrs(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
