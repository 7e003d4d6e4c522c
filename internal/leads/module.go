// Package leads provides the lead lifecycle bounded context module.
// It owns the store-backed lead records and the per-user board
// sessions that the dashboard reads from.
package leads

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"safari_crm_backend/internal/events"
	apphttp "safari_crm_backend/internal/http"
	"safari_crm_backend/internal/leads/collection"
	"safari_crm_backend/internal/leads/handler"
	"safari_crm_backend/internal/leads/management"
	"safari_crm_backend/internal/leads/repository"
	"safari_crm_backend/internal/leads/transfer"
	"safari_crm_backend/platform/config"
	"safari_crm_backend/platform/logger"
	"safari_crm_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	sessions   *collection.Manager
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	sessions := collection.NewManager(cfg.GetBoardSessionTTL())

	mgmtSvc := management.New(repo, sessions, eventBus, log)
	importer := transfer.NewImporter(repo, eventBus, log)
	h := handler.New(mgmtSvc, importer, val, cfg.GetImportMaxRows())

	return &Module{
		handler:    h,
		management: mgmtSvc,
		sessions:   sessions,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RunSessionJanitor evicts idle board sessions until ctx is done.
// Meant to run as a background goroutine from the composition root.
func (m *Module) RunSessionJanitor(ctx context.Context) {
	m.sessions.Run(ctx)
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup, ctx.ImportRateLimiter.RateLimit())
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
