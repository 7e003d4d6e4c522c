package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"safari_crm_backend/internal/catalog"
	"safari_crm_backend/internal/dashboard"
	"safari_crm_backend/internal/events"
	apphttp "safari_crm_backend/internal/http"
	"safari_crm_backend/internal/http/router"
	"safari_crm_backend/internal/leads"
	"safari_crm_backend/internal/notification"
	"safari_crm_backend/internal/staff"
	"safari_crm_backend/migrations"
	"safari_crm_backend/platform/config"
	"safari_crm_backend/platform/db"
	"safari_crm_backend/platform/logger"
	"safari_crm_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	staffModule := staff.NewModule(pool, eventBus, val, log)
	leadsModule := leads.NewModule(pool, eventBus, val, cfg, log)
	catalogModule := catalog.NewModule(pool, cfg, log)
	dashboardModule := dashboard.NewModule(pool, log)

	// Board sessions are evicted after a period of inactivity.
	go leadsModule.RunSessionJanitor(ctx)

	// Notification module subscribes to domain events (not HTTP-facing)
	if cfg.IsMailEnabled() {
		notification.NewModule(eventBus, notification.NewSMTPSender(cfg), staffModule.Service(), log)
		log.Info("mail notifications enabled", "host", cfg.SMTPHost)
	} else {
		log.Warn("SMTP not configured; mail notifications disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			staffModule,
			leadsModule,
			catalogModule,
			dashboardModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// Let in-flight async event handlers drain before exiting.
		done := make(chan struct{})
		go func() {
			eventBus.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			log.Warn("event handlers did not drain in time")
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
