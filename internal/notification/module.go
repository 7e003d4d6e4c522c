package notification

import (
	"context"

	"github.com/google/uuid"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/platform/logger"
)

// StaffDirectory resolves staff notification addresses. Inactive
// members resolve to an error and are silently skipped.
type StaffDirectory interface {
	EmailFor(ctx context.Context, id uuid.UUID) (string, error)
}

// Module wires event subscriptions to the mailer. It has no HTTP
// surface; everything happens in response to published events.
type Module struct {
	mailer    Mailer
	directory StaffDirectory
	log       *logger.Logger
}

// NewModule creates the notification module and subscribes it to the
// events it cares about.
func NewModule(bus events.Bus, mailer Mailer, directory StaffDirectory, log *logger.Logger) *Module {
	m := &Module{mailer: mailer, directory: directory, log: log}

	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))

	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok || e.AssignedTo == nil {
		return nil
	}

	email, err := m.directory.EmailFor(ctx, *e.AssignedTo)
	if err != nil {
		m.log.Warn("new lead alert skipped", "leadId", e.LeadID, "error", err)
		return nil
	}

	if err := m.mailer.SendNewLeadAlert(ctx, email, e.Name, e.Source); err != nil {
		m.log.Error("new lead alert failed", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}

func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok || e.NewStaff == nil {
		// Unassignments do not notify anyone.
		return nil
	}

	email, err := m.directory.EmailFor(ctx, *e.NewStaff)
	if err != nil {
		m.log.Warn("assignment notification skipped", "leadId", e.LeadID, "error", err)
		return nil
	}

	if err := m.mailer.SendLeadAssigned(ctx, email, e.LeadName); err != nil {
		m.log.Error("assignment notification failed", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}
