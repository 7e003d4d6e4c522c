package transfer

import (
	"strings"
	"testing"
	"time"

	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/platform/apperr"
)

func TestParseLeadsHappyPath(t *testing.T) {
	input := strings.Join([]string{
		"name,email,country,phone,status,source,destinations,trip_types,duration_days,adults,children,budget,travel_date,tags,marketing_consent",
		"Jane Doe,jane@acme.com,Kenya,+254712345678,new,website,masai-mara|serengeti,game-drive,7,2,1,4500.50,2026-10-15,vip|repeat,true",
		"John Banda,john@sample.org,Malawi,,,,,,,,,,,,",
	}, "\n")

	rows, err := ParseLeads(strings.NewReader(input), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	jane := rows[0]
	if jane.Line != 2 || jane.Name != "Jane Doe" || jane.Email != "jane@acme.com" || jane.Country != "Kenya" {
		t.Errorf("row 1 parsed wrong: %+v", jane)
	}
	if jane.Status != domain.StatusNew || jane.Source != domain.SourceWebsite {
		t.Errorf("enums parsed wrong: %q %q", jane.Status, jane.Source)
	}
	if len(jane.Destinations) != 2 || jane.Destinations[1] != "serengeti" {
		t.Errorf("destinations = %v", jane.Destinations)
	}
	if jane.DurationDays == nil || *jane.DurationDays != 7 {
		t.Errorf("duration = %v", jane.DurationDays)
	}
	if jane.Budget == nil || *jane.Budget != 4500.50 {
		t.Errorf("budget = %v", jane.Budget)
	}
	if jane.TravelDate == nil || jane.TravelDate.Format("2006-01-02") != "2026-10-15" {
		t.Errorf("travel date = %v", jane.TravelDate)
	}
	if !jane.MarketingConsent {
		t.Error("consent not parsed")
	}
	if len(jane.Tags) != 2 || jane.Tags[0] != "vip" {
		t.Errorf("tags = %v", jane.Tags)
	}

	john := rows[1]
	if john.Status != "" || john.Source != "" || john.Budget != nil {
		t.Errorf("empty cells must stay zero: %+v", john)
	}
}

func TestParseLeadsRejectsWholeFileOnBadCell(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{
			"bad number",
			"name,email,country,adults\nJane,j@x.com,Kenya,two",
		},
		{
			"bad date",
			"name,email,country,travel_date\nJane,j@x.com,Kenya,15-10-2026",
		},
		{
			"unknown status",
			"name,email,country,status\nJane,j@x.com,Kenya,archived",
		},
		{
			"missing required column",
			"name,phone\nJane,+254700000000",
		},
		{
			"blank country cell",
			"name,email,country\nJane,j@x.com,",
		},
		{
			"empty file",
			"",
		},
		{
			"header only",
			"name,email,country",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := ParseLeads(strings.NewReader(tc.input), 100)
			if !apperr.Is(err, apperr.KindUnprocessable) {
				t.Fatalf("expected unprocessable, got rows=%v err=%v", rows, err)
			}
		})
	}
}

func TestParseLeadsErrorNamesTheLine(t *testing.T) {
	input := "name,email,country,adults\nJane,j@x.com,Kenya,2\nJohn,jo@x.com,Kenya,NaN"
	_, err := ParseLeads(strings.NewReader(input), 100)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("error must name the offending line, got %v", err)
	}
}

func TestParseLeadsEnforcesRowLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,email,country\n")
	for i := 0; i < 5; i++ {
		sb.WriteString("Jane,j@x.com,Kenya\n")
	}

	if _, err := ParseLeads(strings.NewReader(sb.String()), 3); !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected row limit rejection, got %v", err)
	}
	if _, err := ParseLeads(strings.NewReader(sb.String()), 5); err != nil {
		t.Fatalf("limit of 5 must accept 5 rows: %v", err)
	}
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	if got := ExportFilename(day); got != "safari-leads-2026-08-29.csv" {
		t.Errorf("filename = %q", got)
	}
}

func TestExportLeadsRoundTripsThroughParse(t *testing.T) {
	duration := 10
	budget := 7200.0
	travel := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	leads := []domain.Lead{
		{
			Name:             "Amara Okafor",
			Email:            "amara@example.com",
			Phone:            "+254712345678",
			Company:          "Okafor Ltd",
			Country:          "Nigeria",
			Status:           domain.StatusQualified,
			Source:           domain.SourceReferral,
			Destinations:     []string{"serengeti", "zanzibar"},
			TripTypes:        []string{"honeymoon"},
			DurationDays:     &duration,
			Adults:           2,
			Budget:           &budget,
			TravelDate:       &travel,
			MarketingConsent: true,
			CreatedAt:        time.Now(),
		},
	}

	var sb strings.Builder
	if err := ExportLeads(&sb, leads); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	rows, err := ParseLeads(strings.NewReader(sb.String()), 0)
	if err != nil {
		t.Fatalf("exported file must parse back: %v", err)
	}
	got := rows[0]
	if got.Name != "Amara Okafor" || got.Country != "Nigeria" || got.Status != domain.StatusQualified {
		t.Errorf("round trip lost data: %+v", got)
	}
	if len(got.Destinations) != 2 || got.Destinations[0] != "serengeti" {
		t.Errorf("destinations = %v", got.Destinations)
	}
	if got.Budget == nil || *got.Budget != 7200.0 {
		t.Errorf("budget = %v", got.Budget)
	}
}
