package repository

import (
	"context"

	"github.com/google/uuid"

	"safari_crm_backend/internal/leads/domain"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
	ListAll(ctx context.Context) ([]domain.Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.LeadPatch) (domain.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// =====================================
// Composite Interface
// =====================================

// Store defines the complete interface for leads data operations.
// Composed of smaller, focused interfaces for better testability.
type Store interface {
	LeadReader
	LeadWriter
}

// Ensure Repository implements Store
var _ Store = (*Repository)(nil)
