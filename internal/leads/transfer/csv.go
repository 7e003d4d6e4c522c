// Package transfer handles CSV import and export of leads.
package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/platform/apperr"
)

// listSeparator joins multi-value cells (destinations, trip types).
const listSeparator = "|"

const dateLayout = "2006-01-02"

// exportHeader is the canonical column order. Import accepts the same
// columns in any order and ignores unknown ones.
var exportHeader = []string{
	"name", "email", "phone", "company", "country", "status", "source",
	"destinations", "trip_types", "duration_days", "adults", "children",
	"budget", "travel_date", "message", "tags", "marketing_consent", "created_at",
}

// Row is one parsed CSV record, ready to be created as a lead.
type Row struct {
	Line             int // 1-based line number in the file, header included
	Name             string
	Email            string
	Phone            string
	Company          string
	Country          string
	Status           domain.Status
	Source           domain.Source
	Destinations     []string
	TripTypes        []string
	DurationDays     *int
	Adults           int
	Children         int
	Budget           *float64
	TravelDate       *time.Time
	Message          string
	Tags             []string
	MarketingConsent bool
}

// ParseLeads reads the whole file before anything is created: a single
// malformed cell rejects the entire payload with a 422 naming the line,
// so an import never half-applies a broken file.
func ParseLeads(r io.Reader, maxRows int) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperr.Unprocessable("empty file")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnprocessable, "malformed CSV header", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUnprocessable,
				fmt.Sprintf("malformed CSV on line %d", line), err)
		}

		row, err := parseRow(record, columns, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)

		if maxRows > 0 && len(rows) > maxRows {
			return nil, apperr.Unprocessable(
				fmt.Sprintf("file exceeds the %d row import limit", maxRows))
		}
	}

	if len(rows) == 0 {
		return nil, apperr.Unprocessable("file contains no data rows")
	}
	return rows, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		columns[key] = i
	}
	for _, required := range []string{"name", "email", "country"} {
		if _, ok := columns[required]; !ok {
			return nil, apperr.Unprocessable("missing required column: " + required)
		}
	}
	return columns, nil
}

func parseRow(record []string, columns map[string]int, line int) (Row, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rowErr := func(column, reason string) error {
		return apperr.Unprocessable(fmt.Sprintf("line %d, column %q: %s", line, column, reason))
	}

	row := Row{
		Line:         line,
		Name:         cell("name"),
		Email:        cell("email"),
		Phone:        cell("phone"),
		Company:      cell("company"),
		Country:      cell("country"),
		Destinations: splitList(cell("destinations")),
		TripTypes:    splitList(cell("trip_types")),
		Message:      cell("message"),
		Tags:         splitList(cell("tags")),
	}

	if row.Country == "" {
		return Row{}, rowErr("country", "country is required")
	}

	if raw := cell("status"); raw != "" {
		status := domain.Status(strings.ToLower(raw))
		if !domain.IsKnownStatus(status) {
			return Row{}, rowErr("status", "unknown status "+raw)
		}
		row.Status = status
	}
	if raw := cell("source"); raw != "" {
		source := domain.Source(strings.ToLower(raw))
		if !domain.IsKnownSource(source) {
			return Row{}, rowErr("source", "unknown source "+raw)
		}
		row.Source = source
	}
	if raw := cell("duration_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			return Row{}, rowErr("duration_days", "not a positive number")
		}
		row.DurationDays = &days
	}
	if raw := cell("adults"); raw != "" {
		adults, err := strconv.Atoi(raw)
		if err != nil || adults < 0 {
			return Row{}, rowErr("adults", "not a number")
		}
		row.Adults = adults
	}
	if raw := cell("children"); raw != "" {
		children, err := strconv.Atoi(raw)
		if err != nil || children < 0 {
			return Row{}, rowErr("children", "not a number")
		}
		row.Children = children
	}
	if raw := cell("budget"); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil || budget < 0 {
			return Row{}, rowErr("budget", "not a number")
		}
		row.Budget = &budget
	}
	if raw := cell("travel_date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return Row{}, rowErr("travel_date", "expected YYYY-MM-DD")
		}
		row.TravelDate = &date
	}
	if raw := cell("marketing_consent"); raw != "" {
		consent, err := strconv.ParseBool(raw)
		if err != nil {
			return Row{}, rowErr("marketing_consent", "expected true or false")
		}
		row.MarketingConsent = consent
	}

	return row, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ExportFilename names a download after its export date.
func ExportFilename(now time.Time) string {
	return "safari-leads-" + now.Format(dateLayout) + ".csv"
}

// ExportLeads writes the leads as CSV in the canonical column order.
func ExportLeads(w io.Writer, leads []domain.Lead) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, lead := range leads {
		record := []string{
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Company,
			lead.Country,
			string(lead.Status),
			string(lead.Source),
			strings.Join(lead.Destinations, listSeparator),
			strings.Join(lead.TripTypes, listSeparator),
			formatIntPtr(lead.DurationDays),
			strconv.Itoa(lead.Adults),
			strconv.Itoa(lead.Children),
			formatFloatPtr(lead.Budget),
			formatDatePtr(lead.TravelDate),
			lead.Message,
			strings.Join(lead.Tags, listSeparator),
			strconv.FormatBool(lead.MarketingConsent),
			lead.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatIntPtr(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatFloatPtr(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func formatDatePtr(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(dateLayout)
}
