package view

import (
	"testing"

	"github.com/google/uuid"

	"safari_crm_backend/internal/leads/domain"
)

func lead(name, email, company string, status domain.Status) domain.Lead {
	return domain.Lead{
		ID:      uuid.New(),
		Name:    name,
		Email:   email,
		Company: company,
		Status:  status,
	}
}

func TestMatchesSearch(t *testing.T) {
	jane := lead("Jane Doe", "jane@acme.com", "Acme Travel", domain.StatusNew)

	cases := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"jane", true},
		{"JANE", true},
		{"ane d", true}, // substring spanning name parts
		{"acme.com", true},
		{"Acme Travel", true},
		{"travel", true},
		{"john", false},
		{"doe@", false},
	}

	for _, tc := range cases {
		if got := MatchesSearch(jane, tc.query); got != tc.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestFilterBySearchPreservesOrder(t *testing.T) {
	leads := []domain.Lead{
		lead("Charlie Banda", "charlie@kenya-tours.com", "", domain.StatusNew),
		lead("Jane Doe", "jane@acme.com", "Acme Travel", domain.StatusNew),
		lead("Alice Mwangi", "alice@sample.org", "Banda Lodge", domain.StatusNew),
	}

	got := FilterBySearch(leads, "banda")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Name != "Charlie Banda" || got[1].Name != "Alice Mwangi" {
		t.Errorf("ordering not preserved: %v, %v", got[0].Name, got[1].Name)
	}
}

func TestBoardColumns(t *testing.T) {
	leads := []domain.Lead{
		lead("n1", "", "", domain.StatusNew),
		lead("c1", "", "", domain.StatusContacted),
		lead("n2", "", "", domain.StatusNew),
		lead("q1", "", "", domain.StatusQualified),
		lead("w1", "", "", domain.StatusWon),
		lead("p1", "", "", domain.StatusProposal),
		lead("l1", "", "", domain.StatusLost),
	}

	columns := BoardColumns(leads)
	if len(columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(columns))
	}

	wantOrder := []domain.Status{
		domain.StatusNew,
		domain.StatusContacted,
		domain.StatusQualified,
		domain.StatusWon,
	}
	counts := map[domain.Status]int{
		domain.StatusNew:       2,
		domain.StatusContacted: 1,
		domain.StatusQualified: 1,
		domain.StatusWon:       1,
	}

	total := 0
	for i, column := range columns {
		if column.Status != wantOrder[i] {
			t.Errorf("column %d is %q, want %q", i, column.Status, wantOrder[i])
		}
		if len(column.Leads) != counts[column.Status] {
			t.Errorf("column %q has %d leads, want %d", column.Status, len(column.Leads), counts[column.Status])
		}
		total += len(column.Leads)
	}

	// proposal and lost leads never appear on the board
	if total != 5 {
		t.Errorf("board holds %d leads, want 5", total)
	}

	newColumn := columns[0]
	if newColumn.Leads[0].Name != "n1" || newColumn.Leads[1].Name != "n2" {
		t.Error("within-column ordering must follow input ordering")
	}
}

func TestBoardColumnsEmptyInput(t *testing.T) {
	columns := BoardColumns(nil)
	if len(columns) != 4 {
		t.Fatalf("expected fixed lanes even when empty, got %d", len(columns))
	}
	for _, column := range columns {
		if column.Leads == nil || len(column.Leads) != 0 {
			t.Errorf("column %q must be an empty, non-nil slice", column.Status)
		}
	}
}
