package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIsKnownStatus(t *testing.T) {
	for _, status := range PipelineOrder {
		if !IsKnownStatus(status) {
			t.Errorf("pipeline status %q not recognized", status)
		}
	}
	if IsKnownStatus("archived") {
		t.Error("unexpected status accepted")
	}
}

func TestIsTerminalStatus(t *testing.T) {
	cases := []struct {
		status   Status
		terminal bool
	}{
		{StatusNew, false},
		{StatusContacted, false},
		{StatusQualified, false},
		{StatusProposal, false},
		{StatusWon, true},
		{StatusLost, true},
	}
	for _, tc := range cases {
		if got := IsTerminalStatus(tc.status); got != tc.terminal {
			t.Errorf("IsTerminalStatus(%q) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestBoardStatusesExcludeProposalAndLost(t *testing.T) {
	for _, status := range BoardStatuses {
		if status == StatusProposal || status == StatusLost {
			t.Errorf("board must not include %q", status)
		}
	}
	if len(BoardStatuses) != 4 {
		t.Errorf("expected 4 board columns, got %d", len(BoardStatuses))
	}
}

func TestPatchApplyLeavesOriginalUntouched(t *testing.T) {
	original := Lead{
		ID:     uuid.New(),
		Name:   "Amara Okafor",
		Email:  "amara@example.com",
		Status: StatusNew,
		Adults: 2,
	}

	newName := "Amara O."
	newStatus := StatusContacted
	patched := LeadPatch{Name: &newName, Status: &newStatus}.Apply(original)

	if patched.Name != "Amara O." || patched.Status != StatusContacted {
		t.Errorf("patch not applied: %+v", patched)
	}
	if original.Name != "Amara Okafor" || original.Status != StatusNew {
		t.Errorf("original mutated: %+v", original)
	}
	if patched.Email != original.Email || patched.Adults != original.Adults {
		t.Error("untouched fields must carry over")
	}
}

func TestPatchApplySetFlagsClearNullables(t *testing.T) {
	staffID := uuid.New()
	budget := 4500.0
	followUp := time.Now().Add(48 * time.Hour)
	lead := Lead{
		AssignedTo: &staffID,
		Budget:     &budget,
		FollowUpAt: &followUp,
	}

	patched := LeadPatch{
		AssignedToSet: true,
		BudgetSet:     true,
		FollowUpAtSet: true,
	}.Apply(lead)

	if patched.AssignedTo != nil || patched.Budget != nil || patched.FollowUpAt != nil {
		t.Errorf("set flags with nil values must clear fields: %+v", patched)
	}

	// Without the flags, nil pointers mean "unchanged".
	unchanged := LeadPatch{}.Apply(lead)
	if unchanged.AssignedTo == nil || unchanged.Budget == nil {
		t.Error("absent fields must remain unchanged")
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(LeadPatch{}).IsEmpty() {
		t.Error("zero patch must be empty")
	}
	name := "x"
	if (LeadPatch{Name: &name}).IsEmpty() {
		t.Error("patch with a field must not be empty")
	}
	if (LeadPatch{BudgetSet: true}).IsEmpty() {
		t.Error("patch with a set flag must not be empty")
	}
}

func TestTravelers(t *testing.T) {
	lead := Lead{Adults: 2, Children: 3}
	if got := lead.Travelers(); got != 5 {
		t.Errorf("Travelers() = %d, want 5", got)
	}
}
