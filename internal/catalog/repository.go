// Package catalog serves the lookup tables behind the dashboard's
// dropdowns: lead sources, destinations and trip types. Values are
// read-heavy and nearly static, so reads go through a Redis cache
// when one is configured.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"safari_crm_backend/internal/leads/domain"
)

// Lookups bundles every lookup table in one payload.
type Lookups struct {
	Sources      []domain.LookupItem `json:"sources"`
	Destinations []domain.LookupItem `json:"destinations"`
	TripTypes    []domain.LookupItem `json:"tripTypes"`
}

// Reader loads the lookup tables.
type Reader interface {
	Lookups(ctx context.Context) (Lookups, error)
}

// Repository implements Reader against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Reader = (*Repository)(nil)

func (r *Repository) Lookups(ctx context.Context) (Lookups, error) {
	sources, err := r.queryLookup(ctx, "lead_sources")
	if err != nil {
		return Lookups{}, err
	}
	destinations, err := r.queryLookup(ctx, "destinations")
	if err != nil {
		return Lookups{}, err
	}
	tripTypes, err := r.queryLookup(ctx, "trip_types")
	if err != nil {
		return Lookups{}, err
	}

	return Lookups{
		Sources:      sources,
		Destinations: destinations,
		TripTypes:    tripTypes,
	}, nil
}

func (r *Repository) queryLookup(ctx context.Context, table string) ([]domain.LookupItem, error) {
	// table is one of three literals above, never user input.
	query := fmt.Sprintf(
		`SELECT code, label, sort_order FROM %s ORDER BY sort_order ASC, label ASC`, table,
	)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	items := []domain.LookupItem{}
	for rows.Next() {
		var item domain.LookupItem
		if err := rows.Scan(&item.Code, &item.Label, &item.SortOrder); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
