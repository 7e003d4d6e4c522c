// Package service implements staff and office management.
package service

import (
	"context"
	"errors"
	"net"

	"github.com/google/uuid"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/internal/staff/domain"
	"safari_crm_backend/internal/staff/repository"
	"safari_crm_backend/internal/staff/transport"
	"safari_crm_backend/platform/apperr"
	"safari_crm_backend/platform/logger"
	"safari_crm_backend/platform/phone"
)

// Store defines the data access interface the service needs.
type Store interface {
	repository.StaffReader
	repository.StaffWriter
	repository.OfficeStore
}

// Service handles staff management operations.
type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

// New creates a new staff service.
func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Create registers a new staff member. Emails are unique; a duplicate
// maps to a conflict the client can show inline.
func (s *Service) Create(ctx context.Context, req transport.CreateStaffRequest) (transport.StaffResponse, error) {
	member, err := s.store.Create(ctx, repository.CreateStaffParams{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    phone.NormalizeE164(req.Phone),
		Role:     req.Role,
		OfficeID: req.OfficeID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.StaffResponse{}, apperr.Conflict("a staff member with this email already exists")
		}
		return transport.StaffResponse{}, s.storeError("create staff", err)
	}

	s.bus.Publish(ctx, events.StaffCreated{
		BaseEvent: events.NewBaseEvent(),
		StaffID:   member.ID,
		FullName:  member.FullName,
		Email:     member.Email,
		Role:      string(member.Role),
	})

	return transport.ToStaffResponse(member), nil
}

// GetByID retrieves a single staff member.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.StaffResponse, error) {
	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.StaffResponse{}, s.storeError("get staff", err)
	}
	return transport.ToStaffResponse(member), nil
}

// List returns staff members, optionally filtered by office, status or role.
func (s *Service) List(ctx context.Context, req transport.ListStaffRequest) ([]transport.StaffResponse, error) {
	members, err := s.store.List(ctx, repository.ListParams{
		OfficeID: req.OfficeID,
		Status:   req.Status,
		Role:     req.Role,
	})
	if err != nil {
		return nil, s.storeError("list staff", err)
	}
	return transport.ToStaffResponses(members), nil
}

// Assignable returns active staff members, the set leads may be
// assigned to.
func (s *Service) Assignable(ctx context.Context) ([]transport.StaffResponse, error) {
	active := domain.StatusActive
	members, err := s.store.List(ctx, repository.ListParams{Status: &active})
	if err != nil {
		return nil, s.storeError("list assignable staff", err)
	}
	return transport.ToStaffResponses(members), nil
}

// Update applies a partial update to a staff member.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateStaffRequest) (transport.StaffResponse, error) {
	params := repository.UpdateStaffParams{
		FullName: req.FullName,
		Role:     req.Role,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.OfficeID.Set {
		params.OfficeID = req.OfficeID.Value
		params.OfficeIDSet = true
	}

	member, err := s.store.Update(ctx, id, params)
	if err != nil {
		return transport.StaffResponse{}, s.storeError("update staff", err)
	}
	return transport.ToStaffResponse(member), nil
}

// SetStatus activates or deactivates a staff member. Deactivation does
// not unassign existing leads; it only blocks new assignments in the UI.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return s.storeError("set staff status", err)
	}
	return nil
}

// CreateOffice registers a new office.
func (s *Service) CreateOffice(ctx context.Context, req transport.CreateOfficeRequest) (transport.OfficeResponse, error) {
	office, err := s.store.CreateOffice(ctx, req.Name, req.City, req.Country)
	if err != nil {
		return transport.OfficeResponse{}, s.storeError("create office", err)
	}
	return transport.ToOfficeResponse(office), nil
}

// ListOffices returns all offices.
func (s *Service) ListOffices(ctx context.Context) ([]transport.OfficeResponse, error) {
	offices, err := s.store.ListOffices(ctx)
	if err != nil {
		return nil, s.storeError("list offices", err)
	}

	out := make([]transport.OfficeResponse, 0, len(offices))
	for _, office := range offices {
		out = append(out, transport.ToOfficeResponse(office))
	}
	return out, nil
}

// EmailFor resolves a staff member's notification address. Inactive
// members get no notifications.
func (s *Service) EmailFor(ctx context.Context, id uuid.UUID) (string, error) {
	member, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", s.storeError("resolve staff email", err)
	}
	if !member.Active() {
		return "", apperr.NotFound("staff member is inactive")
	}
	return member.Email, nil
}

func (s *Service) storeError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("staff member not found")
	}

	s.log.StoreError(op, err)

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUnavailable, "the backing store is unreachable, try again", err)
	}
	return apperr.Wrap(apperr.KindInternal, "internal error", err)
}
