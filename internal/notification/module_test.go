package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/platform/logger"
)

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (f *fakeMailer) SendLeadAssigned(ctx context.Context, toEmail, leadName string) error {
	return f.record(toEmail, subjectLeadAssigned)
}

func (f *fakeMailer) SendNewLeadAlert(ctx context.Context, toEmail, leadName, source string) error {
	return f.record(toEmail, subjectNewLead)
}

func (f *fakeMailer) record(to, subject string) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

type fakeDirectory struct {
	emails map[uuid.UUID]string
}

func (f *fakeDirectory) EmailFor(ctx context.Context, id uuid.UUID) (string, error) {
	email, ok := f.emails[id]
	if !ok {
		return "", errors.New("staff member not found")
	}
	return email, nil
}

func newTestModule(mailer *fakeMailer, directory *fakeDirectory) (*Module, events.Bus) {
	bus := events.NewInMemoryBus(logger.New("development"))
	m := NewModule(bus, mailer, directory, logger.New("development"))
	return m, bus
}

func TestAssignmentNotifiesNewAssignee(t *testing.T) {
	staffID := uuid.New()
	mailer := &fakeMailer{}
	directory := &fakeDirectory{emails: map[uuid.UUID]string{staffID: "agent@safari.example"}}
	_, bus := newTestModule(mailer, directory)

	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		LeadName:  "Amara Okafor",
		NewStaff:  &staffID,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || mailer.sent[0].to != "agent@safari.example" {
		t.Fatalf("sent = %+v", mailer.sent)
	}
	if mailer.sent[0].subject != subjectLeadAssigned {
		t.Errorf("subject = %q", mailer.sent[0].subject)
	}
}

func TestUnassignmentSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	_, bus := newTestModule(mailer, &fakeDirectory{})

	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		LeadName:  "Amara Okafor",
		NewStaff:  nil,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 0 {
		t.Fatalf("unassignment must not mail anyone: %+v", mailer.sent)
	}
}

func TestCreatedLeadWithoutAssigneeSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	_, bus := newTestModule(mailer, &fakeDirectory{})

	err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Name:      "Amara Okafor",
		Source:    "website",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 0 {
		t.Fatalf("unassigned lead must not mail anyone: %+v", mailer.sent)
	}
}

func TestUnknownAssigneeIsSkippedNotFailed(t *testing.T) {
	mailer := &fakeMailer{}
	_, bus := newTestModule(mailer, &fakeDirectory{})

	staffID := uuid.New()
	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		LeadName:  "Amara Okafor",
		NewStaff:  &staffID,
	})
	if err != nil {
		t.Fatalf("unresolvable assignee must not fail the publish: %v", err)
	}
}
