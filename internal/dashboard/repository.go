// Package dashboard aggregates lead statistics for the overview page.
// Numbers come straight from the database rather than any board
// session, so every user sees the same figures.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Metrics is the overview payload.
type Metrics struct {
	TotalLeads     int            `json:"totalLeads"`
	ByStatus       map[string]int `json:"byStatus"`
	NewThisWeek    int            `json:"newThisWeek"`
	Unassigned     int            `json:"unassigned"`
	DueFollowUps   int            `json:"dueFollowUps"`
	ConversionRate float64        `json:"conversionRate"`
	Revenue        []MonthRevenue `json:"revenue"`
}

// MonthRevenue is one bar of the revenue chart: the summed budget of
// leads won in that month.
type MonthRevenue struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// Reader loads dashboard metrics.
type Reader interface {
	Metrics(ctx context.Context, now time.Time) (Metrics, error)
}

// Repository implements Reader against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a dashboard repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Reader = (*Repository)(nil)

func (r *Repository) Metrics(ctx context.Context, now time.Time) (Metrics, error) {
	metrics := Metrics{ByStatus: map[string]int{}}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM leads
		WHERE deleted_at IS NULL
		GROUP BY status
	`)
	if err != nil {
		return Metrics{}, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Metrics{}, fmt.Errorf("scan status count: %w", err)
		}
		metrics.ByStatus[status] = count
		metrics.TotalLeads += count
	}
	if err := rows.Err(); err != nil {
		return Metrics{}, err
	}

	weekAgo := now.AddDate(0, 0, -7)
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE assigned_to IS NULL),
			COUNT(*) FILTER (WHERE follow_up_at IS NOT NULL AND follow_up_at <= $2)
		FROM leads
		WHERE deleted_at IS NULL
	`, weekAgo, now).Scan(&metrics.NewThisWeek, &metrics.Unassigned, &metrics.DueFollowUps)
	if err != nil {
		return Metrics{}, fmt.Errorf("count activity: %w", err)
	}

	// Conversion counts won leads against everything that left the
	// "new" stage, so a fresh pipeline does not show 0% forever.
	worked := metrics.TotalLeads - metrics.ByStatus["new"]
	if worked > 0 {
		metrics.ConversionRate = float64(metrics.ByStatus["won"]) / float64(worked)
	}

	revenue, err := r.monthlyRevenue(ctx, now)
	if err != nil {
		return Metrics{}, err
	}
	metrics.Revenue = revenue

	return metrics, nil
}

// monthlyRevenue sums won-lead budgets per month over the trailing
// year. Months without wins are absent from the result.
func (r *Repository) monthlyRevenue(ctx context.Context, now time.Time) ([]MonthRevenue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', updated_at), 'YYYY-MM') AS month,
		       COALESCE(SUM(budget), 0)
		FROM leads
		WHERE deleted_at IS NULL
		  AND status = 'won'
		  AND budget IS NOT NULL
		  AND updated_at >= $1
		GROUP BY month
		ORDER BY month
	`, now.AddDate(-1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	revenue := make([]MonthRevenue, 0, 12)
	for rows.Next() {
		var entry MonthRevenue
		if err := rows.Scan(&entry.Month, &entry.Total); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		revenue = append(revenue, entry)
	}
	return revenue, rows.Err()
}
