package dashboard

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "safari_crm_backend/internal/http"
	"safari_crm_backend/platform/logger"
)

// Module is the dashboard bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the dashboard module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
