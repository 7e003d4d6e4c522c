// Package repository provides database access for staff and offices.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"safari_crm_backend/internal/staff/domain"
)

// ErrNotFound is returned when a staff member or office does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a staff email is already taken.
var ErrDuplicateEmail = errors.New("email already in use")

const uniqueViolation = "23505"

// StaffReader defines read operations for staff.
type StaffReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (domain.Staff, error)
	List(ctx context.Context, params ListParams) ([]domain.Staff, error)
}

// StaffWriter defines write operations for staff.
type StaffWriter interface {
	Create(ctx context.Context, params CreateStaffParams) (domain.Staff, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateStaffParams) (domain.Staff, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// OfficeStore defines office operations.
type OfficeStore interface {
	CreateOffice(ctx context.Context, name, city, country string) (domain.Office, error)
	ListOffices(ctx context.Context) ([]domain.Office, error)
}

// Store combines all staff data access operations.
type Store interface {
	StaffReader
	StaffWriter
	OfficeStore
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new staff repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const staffColumns = `id, full_name, email, phone, role, office_id, status, last_login_at, created_at, updated_at`

func scanStaff(row pgx.Row) (domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(
		&s.ID, &s.FullName, &s.Email, &s.Phone, &s.Role,
		&s.OfficeID, &s.Status, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// CreateStaffParams holds the fields for creating a staff member.
type CreateStaffParams struct {
	FullName string
	Email    string
	Phone    string
	Role     domain.Role
	OfficeID *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateStaffParams) (domain.Staff, error) {
	role := params.Role
	if role == "" {
		role = domain.RoleAgent
	}

	query := `
		INSERT INTO staff (full_name, email, phone, role, office_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + staffColumns

	staff, err := scanStaff(r.pool.QueryRow(ctx, query,
		params.FullName, strings.ToLower(params.Email), params.Phone, role, params.OfficeID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Staff{}, ErrDuplicateEmail
		}
		return domain.Staff{}, fmt.Errorf("create staff: %w", err)
	}
	return staff, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	staff, err := scanStaff(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, ErrNotFound
	}
	if err != nil {
		return domain.Staff{}, fmt.Errorf("get staff: %w", err)
	}
	return staff, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	staff, err := scanStaff(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, ErrNotFound
	}
	if err != nil {
		return domain.Staff{}, fmt.Errorf("get staff by email: %w", err)
	}
	return staff, nil
}

// ListParams filters the staff listing.
type ListParams struct {
	OfficeID *uuid.UUID
	Status   *domain.Status
	Role     *domain.Role
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Staff, error) {
	conditions := []string{"1=1"}
	args := []any{}
	arg := 1

	if params.OfficeID != nil {
		conditions = append(conditions, fmt.Sprintf("office_id = $%d", arg))
		args = append(args, *params.OfficeID)
		arg++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", arg))
		args = append(args, *params.Status)
		arg++
	}
	if params.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", arg))
		args = append(args, *params.Role)
	}

	query := `SELECT ` + staffColumns + ` FROM staff WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY full_name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	members := []domain.Staff{}
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// UpdateStaffParams holds optional fields for a partial staff update.
type UpdateStaffParams struct {
	FullName *string
	Phone    *string
	Role     *domain.Role
	OfficeID *uuid.UUID
	// OfficeIDSet distinguishes "unassign office" from "leave as is".
	OfficeIDSet bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateStaffParams) (domain.Staff, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}
	arg := 1

	fields := []struct {
		enabled bool
		column  string
		value   any
	}{
		{params.FullName != nil, "full_name", derefOr(params.FullName, "")},
		{params.Phone != nil, "phone", derefOr(params.Phone, "")},
		{params.Role != nil, "role", derefRole(params.Role)},
		{params.OfficeIDSet, "office_id", params.OfficeID},
	}
	for _, f := range fields {
		if !f.enabled {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", f.column, arg))
		args = append(args, f.value)
		arg++
	}

	query := fmt.Sprintf(
		`UPDATE staff SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), arg, staffColumns,
	)
	args = append(args, id)

	staff, err := scanStaff(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, ErrNotFound
	}
	if err != nil {
		return domain.Staff{}, fmt.Errorf("update staff: %w", err)
	}
	return staff, nil
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("set staff status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE staff SET last_login_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *Repository) CreateOffice(ctx context.Context, name, city, country string) (domain.Office, error) {
	var office domain.Office
	err := r.pool.QueryRow(ctx, `
		INSERT INTO offices (name, city, country)
		VALUES ($1, $2, $3)
		RETURNING id, name, city, country, created_at
	`, name, city, country).Scan(
		&office.ID, &office.Name, &office.City, &office.Country, &office.CreatedAt,
	)
	if err != nil {
		return domain.Office{}, fmt.Errorf("create office: %w", err)
	}
	return office, nil
}

func (r *Repository) ListOffices(ctx context.Context) ([]domain.Office, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, city, country, created_at FROM offices ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	defer rows.Close()

	offices := []domain.Office{}
	for rows.Next() {
		var office domain.Office
		if err := rows.Scan(&office.ID, &office.Name, &office.City, &office.Country, &office.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, office)
	}
	return offices, rows.Err()
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func derefRole(r *domain.Role) domain.Role {
	if r == nil {
		return ""
	}
	return *r
}
