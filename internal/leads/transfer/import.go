package transfer

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/internal/leads/repository"
	"safari_crm_backend/internal/leads/transport"
	"safari_crm_backend/platform/logger"
	"safari_crm_backend/platform/phone"
)

// importParallelism caps concurrent creates so a big file cannot
// monopolize the connection pool.
const importParallelism = 4

// Creator is the slice of the store the importer needs.
type Creator interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error)
}

// Importer creates leads from parsed CSV rows. Rows are independent:
// one failing row never rolls back its siblings, and every row's
// outcome is reported back.
type Importer struct {
	store Creator
	bus   events.Bus
	log   *logger.Logger

	// OnCreated, when set, receives each created lead (used to mirror
	// imports into the caller's board session).
	OnCreated func(domain.Lead)
}

// NewImporter creates a CSV importer.
func NewImporter(store Creator, bus events.Bus, log *logger.Logger) *Importer {
	return &Importer{store: store, bus: bus, log: log}
}

// Run creates all rows with bounded parallelism and returns a per-row
// report ordered by line number.
func (i *Importer) Run(ctx context.Context, actorID uuid.UUID, rows []Row) transport.ImportReportResponse {
	var mu sync.Mutex
	results := make([]transport.ImportRowResult, 0, len(rows))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(importParallelism)

	for _, row := range rows {
		row := row
		group.Go(func() error {
			result := i.importRow(groupCtx, row)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures land in the report.
	_ = group.Wait()

	sort.Slice(results, func(a, b int) bool { return results[a].Row < results[b].Row })

	report := transport.ImportReportResponse{Total: len(results), Rows: results}
	for _, result := range results {
		if result.Error == "" {
			report.Created++
		} else {
			report.Failed++
		}
	}

	i.log.ImportSummary(report.Total, report.Created, report.Failed)
	i.bus.Publish(ctx, events.LeadsImported{
		BaseEvent:  events.NewBaseEvent(),
		Total:      report.Total,
		Created:    report.Created,
		Failed:     report.Failed,
		ImportedBy: actorID,
	})

	return report
}

func (i *Importer) importRow(ctx context.Context, row Row) transport.ImportRowResult {
	result := transport.ImportRowResult{Row: row.Line}

	if row.Name == "" {
		result.Error = "name is required"
		return result
	}
	if row.Email == "" {
		result.Error = "email is required"
		return result
	}
	if row.Country == "" {
		result.Error = "country is required"
		return result
	}

	source := row.Source
	if source == "" {
		source = domain.SourceImport
	}

	lead, err := i.store.Create(ctx, repository.CreateLeadParams{
		Name:             row.Name,
		Email:            row.Email,
		Phone:            phone.NormalizeE164(row.Phone),
		Company:          row.Company,
		Country:          row.Country,
		Status:           row.Status,
		Source:           source,
		Destinations:     row.Destinations,
		TripTypes:        row.TripTypes,
		DurationDays:     row.DurationDays,
		Adults:           row.Adults,
		Children:         row.Children,
		Budget:           row.Budget,
		TravelDate:       row.TravelDate,
		Message:          row.Message,
		Tags:             row.Tags,
		MarketingConsent: row.MarketingConsent,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.LeadID = &lead.ID
	if i.OnCreated != nil {
		i.OnCreated(lead)
	}
	return result
}
