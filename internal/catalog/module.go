package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	apphttp "safari_crm_backend/internal/http"
	"safari_crm_backend/platform/config"
	"safari_crm_backend/platform/logger"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the catalog module. When Redis is configured the
// lookup reads go through a cache; otherwise they hit the database
// directly.
func NewModule(pool *pgxpool.Pool, cfg config.RedisConfig, log *logger.Logger) *Module {
	var reader Reader = NewRepository(pool)

	if cfg.IsRedisEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		reader = NewCachedReader(reader, client, cfg.GetLookupCacheTTL(), log)
	}

	return &Module{handler: NewHandler(reader, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
