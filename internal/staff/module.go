// Package staff provides the staff and offices bounded context module.
package staff

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"safari_crm_backend/internal/events"
	apphttp "safari_crm_backend/internal/http"
	"safari_crm_backend/internal/staff/handler"
	"safari_crm_backend/internal/staff/repository"
	"safari_crm_backend/internal/staff/service"
	"safari_crm_backend/platform/logger"
	"safari_crm_backend/platform/validator"
)

// Module is the staff bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the staff module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "staff"
}

// Service returns the staff service for external use (e.g. the
// notification module's recipient lookup).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts staff routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
