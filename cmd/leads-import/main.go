// Command leads-import bulk-loads a CSV of leads straight into the
// database, bypassing the HTTP API. Useful for the initial migration
// from a spreadsheet-driven workflow.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/internal/leads/repository"
	"safari_crm_backend/internal/leads/transfer"
	"safari_crm_backend/platform/config"
	"safari_crm_backend/platform/db"
	"safari_crm_backend/platform/logger"
)

func main() {
	var (
		path    = flag.String("file", "", "path to the CSV file to import")
		maxRows = flag.Int("max-rows", 0, "abort when the file has more rows (0 = no limit)")
	)
	flag.Parse()

	if *path == "" {
		panic("usage: leads-import -file leads.csv")
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead import", "file", *path)

	file, err := os.Open(*path)
	if err != nil {
		log.Error("failed to open file", "error", err)
		panic("failed to open file: " + err.Error())
	}
	defer file.Close()

	rows, err := transfer.ParseLeads(file, *maxRows)
	if err != nil {
		log.Error("file rejected", "error", err)
		panic("file rejected: " + err.Error())
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	bus := events.NewInMemoryBus(log)
	importer := transfer.NewImporter(repository.New(pool), bus, log)

	report := importer.Run(ctx, uuid.Nil, rows)
	bus.Wait()

	for _, row := range report.Rows {
		if row.Error != "" {
			log.Warn("row failed", "line", row.Row, "error", row.Error)
		}
	}
	log.Info("import finished", "total", report.Total, "created", report.Created, "failed", report.Failed)

	if report.Failed > 0 {
		os.Exit(1)
	}
}
