package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"safari_crm_backend/internal/leads/domain"
)

var ErrNotFound = errors.New("lead not found")

// collectionCap bounds how many rows ListAll returns into a board session.
const collectionCap = 5000

const leadColumns = `id, name, email, phone, company, country, status, source, source_id,
	assigned_to, destinations, trip_types, duration_days, adults, children, budget,
	travel_date, message, notes, tags, marketing_consent,
	utm_source, utm_medium, utm_campaign,
	last_contacted_at, follow_up_at, follow_up_notes, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status, source string
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.Country,
		&status, &source, &lead.SourceID, &lead.AssignedTo,
		&lead.Destinations, &lead.TripTypes, &lead.DurationDays,
		&lead.Adults, &lead.Children, &lead.Budget, &lead.TravelDate,
		&lead.Message, &lead.Notes, &lead.Tags, &lead.MarketingConsent,
		&lead.UTMSource, &lead.UTMMedium, &lead.UTMCampaign,
		&lead.LastContactedAt, &lead.FollowUpAt, &lead.FollowUpNotes,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Status = domain.Status(status)
	lead.Source = domain.Source(source)
	return lead, nil
}

type CreateLeadParams struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	Country          string
	Status           domain.Status
	Source           domain.Source
	SourceID         string
	AssignedTo       *uuid.UUID
	Destinations     []string
	TripTypes        []string
	DurationDays     *int
	Adults           int
	Children         int
	Budget           *float64
	TravelDate       *time.Time
	Message          string
	Notes            []string
	Tags             []string
	MarketingConsent bool
	UTMSource        string
	UTMMedium        string
	UTMCampaign      string
	FollowUpAt       *time.Time
	FollowUpNotes    string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	if params.Status == "" {
		params.Status = domain.StatusNew
	}
	if params.Source == "" {
		params.Source = domain.SourceManual
	}
	if params.Destinations == nil {
		params.Destinations = []string{}
	}
	if params.TripTypes == nil {
		params.TripTypes = []string{}
	}
	if params.Notes == nil {
		params.Notes = []string{}
	}
	if params.Tags == nil {
		params.Tags = []string{}
	}

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO leads (
			name, email, phone, company, country, status, source, source_id, assigned_to,
			destinations, trip_types, duration_days, adults, children, budget, travel_date,
			message, notes, tags, marketing_consent, utm_source, utm_medium, utm_campaign,
			follow_up_at, follow_up_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING %s
	`, leadColumns),
		params.Name, params.Email, params.Phone, params.Company, params.Country,
		string(params.Status), string(params.Source), params.SourceID, params.AssignedTo,
		params.Destinations, params.TripTypes, params.DurationDays,
		params.Adults, params.Children, params.Budget, params.TravelDate,
		params.Message, params.Notes, params.Tags, params.MarketingConsent,
		params.UTMSource, params.UTMMedium, params.UTMCampaign,
		params.FollowUpAt, params.FollowUpNotes,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM leads WHERE id = $1 AND deleted_at IS NULL
	`, leadColumns), id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// ListAll returns the full working set, newest first. Used to seed a
// board session.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM leads WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1
	`, leadColumns), collectionCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

type ListParams struct {
	Status        *domain.Status
	Source        *domain.Source
	AssignedTo    *uuid.UUID
	Search        string
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	Offset        int
	Limit         int
	SortBy        string
	SortOrder     string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	if params.Limit <= 0 {
		params.Limit = 50
	}
	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addEquals("status", string(*params.Status))
	}
	if params.Source != nil {
		addEquals("source", string(*params.Source))
	}
	if params.AssignedTo != nil {
		addEquals("assigned_to", *params.AssignedTo)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}
	if params.CreatedAtFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.CreatedAtFrom)
		argIdx++
	}
	if params.CreatedAtTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.CreatedAtTo)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "status":
		return "status"
	case "travel_date":
		return "travel_date"
	case "updated_at":
		return "updated_at"
	default:
		return "created_at"
	}
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch domain.LeadPatch) (domain.Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{patch.Name != nil, "name", deref(patch.Name)},
		{patch.Email != nil, "email", deref(patch.Email)},
		{patch.Phone != nil, "phone", deref(patch.Phone)},
		{patch.Company != nil, "company", deref(patch.Company)},
		{patch.Country != nil, "country", deref(patch.Country)},
		{patch.Status != nil, "status", statusValue(patch.Status)},
		{patch.Source != nil, "source", sourceValue(patch.Source)},
		{patch.AssignedToSet, "assigned_to", patch.AssignedTo},
		{patch.Destinations != nil, "destinations", sliceValue(patch.Destinations)},
		{patch.TripTypes != nil, "trip_types", sliceValue(patch.TripTypes)},
		{patch.DurationDaysSet, "duration_days", patch.DurationDays},
		{patch.Adults != nil, "adults", derefInt(patch.Adults)},
		{patch.Children != nil, "children", derefInt(patch.Children)},
		{patch.BudgetSet, "budget", patch.Budget},
		{patch.TravelDateSet, "travel_date", patch.TravelDate},
		{patch.Message != nil, "message", deref(patch.Message)},
		{patch.Notes != nil, "notes", sliceValue(patch.Notes)},
		{patch.Tags != nil, "tags", sliceValue(patch.Tags)},
		{patch.MarketingConsent != nil, "marketing_consent", derefBool(patch.MarketingConsent)},
		{patch.UTMSource != nil, "utm_source", deref(patch.UTMSource)},
		{patch.UTMMedium != nil, "utm_medium", deref(patch.UTMMedium)},
		{patch.UTMCampaign != nil, "utm_campaign", deref(patch.UTMCampaign)},
		{patch.LastContactedAt != nil, "last_contacted_at", patch.LastContactedAt},
		{patch.FollowUpAtSet, "follow_up_at", patch.FollowUpAt},
		{patch.FollowUpNotes != nil, "follow_up_notes", deref(patch.FollowUpNotes)},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, leadColumns), id, string(status))

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// Delete soft-deletes the lead so historical imports stay auditable.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func derefBool(value *bool) bool {
	if value == nil {
		return false
	}
	return *value
}

func statusValue(status *domain.Status) string {
	if status == nil {
		return ""
	}
	return string(*status)
}

func sourceValue(source *domain.Source) string {
	if source == nil {
		return ""
	}
	return string(*source)
}

func sliceValue(value *[]string) []string {
	if value == nil {
		return nil
	}
	return *value
}
