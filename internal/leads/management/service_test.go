package management

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"safari_crm_backend/internal/events"
	"safari_crm_backend/internal/leads/collection"
	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/internal/leads/repository"
	"safari_crm_backend/internal/leads/transport"
	"safari_crm_backend/platform/apperr"
	"safari_crm_backend/platform/logger"
)

// fakeStore is an in-memory Store used across service tests.
type fakeStore struct {
	mu    sync.Mutex
	leads map[uuid.UUID]domain.Lead
	order []uuid.UUID

	failWith error
	lastList repository.ListParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: make(map[uuid.UUID]domain.Lead)}
}

func (f *fakeStore) seed(lead domain.Lead) domain.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	f.leads[lead.ID] = lead
	f.order = append(f.order, lead.ID)
	return lead
}

func (f *fakeStore) ListAll(ctx context.Context) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Lead, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if lead, ok := f.leads[f.order[i]]; ok {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Lead{}, f.failWith
	}
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(ctx context.Context, params repository.ListParams) ([]domain.Lead, int, error) {
	f.mu.Lock()
	f.lastList = params
	f.mu.Unlock()

	leads, err := f.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return leads, len(leads), nil
}

func (f *fakeStore) Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Lead{}, f.failWith
	}

	status := params.Status
	if status == "" {
		status = domain.StatusNew
	}
	source := params.Source
	if source == "" {
		source = domain.SourceManual
	}
	lead := domain.Lead{
		ID:         uuid.New(),
		Name:       params.Name,
		Email:      params.Email,
		Phone:      params.Phone,
		Company:    params.Company,
		Country:    params.Country,
		Status:     status,
		Source:     source,
		AssignedTo: params.AssignedTo,
		Adults:     params.Adults,
		Children:   params.Children,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.leads[lead.ID] = lead
	f.order = append(f.order, lead.ID)
	return lead, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, patch domain.LeadPatch) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Lead{}, f.failWith
	}
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead = patch.Apply(lead)
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	updated := status
	return f.Update(ctx, id, domain.LeadPatch{Status: &updated})
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

// fakeBus records published events synchronously.
type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *fakeBus) Subscribe(eventName string, handler events.Handler) {}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.EventName())
	}
	return out
}

func newTestService(store *fakeStore) (*Service, *fakeBus) {
	bus := &fakeBus{}
	sessions := collection.NewManager(time.Hour)
	return New(store, sessions, bus, logger.New("development")), bus
}

func TestCreateInsertsIntoSessionAndPublishes(t *testing.T) {
	store := newFakeStore()
	svc, bus := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	created, err := svc.Create(context.Background(), actor, transport.CreateLeadRequest{
		Name:  "Amara Okafor",
		Email: "amara@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != domain.StatusNew {
		t.Errorf("new leads must default to status new, got %q", created.Status)
	}
	if !created.IsNew {
		t.Error("freshly created lead must carry the highlight marker")
	}

	list, err := svc.List(context.Background(), actor, transport.ListLeadsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 || list.Items[0].ID != created.ID {
		t.Fatalf("created lead missing from session: %+v", list)
	}

	if got := bus.names(); len(got) != 1 || got[0] != "leads.lead.created" {
		t.Errorf("expected LeadCreated event, got %v", got)
	}
}

func TestCreatePrependsToWorkingSet(t *testing.T) {
	store := newFakeStore()
	store.seed(domain.Lead{Name: "older", Status: domain.StatusNew})
	svc, _ := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), actor, transport.CreateLeadRequest{
		Name: "newest", Email: "n@example.com",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, _ := svc.List(context.Background(), actor, transport.ListLeadsRequest{})
	if list.Items[0].Name != "newest" {
		t.Errorf("newest lead must come first, got %q", list.Items[0].Name)
	}
}

func TestUpdateStatusPublishesTransition(t *testing.T) {
	store := newFakeStore()
	lead := store.seed(domain.Lead{Name: "x", Status: domain.StatusNew})
	svc, bus := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), actor, lead.ID, domain.StatusQualified)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != domain.StatusQualified {
		t.Errorf("status = %q", updated.Status)
	}

	found := false
	bus.mu.Lock()
	for _, e := range bus.published {
		if change, ok := e.(events.LeadStatusChanged); ok {
			found = true
			if change.OldStatus != "new" || change.NewStatus != "qualified" {
				t.Errorf("transition %q -> %q", change.OldStatus, change.NewStatus)
			}
		}
	}
	bus.mu.Unlock()
	if !found {
		t.Error("expected LeadStatusChanged event")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	lead := store.seed(domain.Lead{Name: "x", Status: domain.StatusNew})
	svc, _ := newTestService(store)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), lead.ID, "archived")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMutationOnVanishedLeadDropsSessionCopy(t *testing.T) {
	store := newFakeStore()
	lead := store.seed(domain.Lead{Name: "ghost", Status: domain.StatusNew})
	svc, _ := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Another user deletes the lead behind this session's back.
	if err := store.Delete(context.Background(), lead.ID); err != nil {
		t.Fatalf("background delete failed: %v", err)
	}

	name := "renamed"
	_, err := svc.Update(context.Background(), actor, lead.ID, transport.UpdateLeadRequest{Name: &name})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, _ := svc.List(context.Background(), actor, transport.ListLeadsRequest{})
	if list.Total != 0 {
		t.Errorf("stale lead must be dropped from the session, total=%d", list.Total)
	}
}

func TestDeleteIsIdempotentTowardsSession(t *testing.T) {
	store := newFakeStore()
	lead := store.seed(domain.Lead{Name: "x", Status: domain.StatusNew})
	svc, bus := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.Delete(context.Background(), actor, lead.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := bus.names(); len(got) != 1 || got[0] != "leads.lead.deleted" {
		t.Errorf("expected LeadDeleted event, got %v", got)
	}

	// A repeat delete reports the stale state but leaves the session clean.
	err := svc.Delete(context.Background(), actor, lead.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	list, _ := svc.List(context.Background(), actor, transport.ListLeadsRequest{})
	if list.Total != 0 {
		t.Errorf("session must stay clean, total=%d", list.Total)
	}
}

func TestAssignPublishesOnlyOnChange(t *testing.T) {
	store := newFakeStore()
	staffID := uuid.New()
	lead := store.seed(domain.Lead{Name: "x", Status: domain.StatusNew, AssignedTo: &staffID})
	svc, bus := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Re-assigning to the same staff member publishes nothing.
	if _, err := svc.Assign(context.Background(), actor, lead.ID, &staffID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if got := bus.names(); len(got) != 0 {
		t.Fatalf("no event expected for a no-op assignment, got %v", got)
	}

	other := uuid.New()
	if _, err := svc.Assign(context.Background(), actor, lead.ID, &other); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if got := bus.names(); len(got) != 1 || got[0] != "leads.lead.assigned" {
		t.Errorf("expected LeadAssigned event, got %v", got)
	}
}

func TestListSearchAndPagination(t *testing.T) {
	store := newFakeStore()
	for _, name := range []string{"Jane Doe", "John Banda", "Alice Mwangi", "Janet Ochieng"} {
		store.seed(domain.Lead{Name: name, Status: domain.StatusNew})
	}
	svc, _ := newTestService(store)
	actor := uuid.New()

	list, err := svc.List(context.Background(), actor, transport.ListLeadsRequest{Search: "jan"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "jan", list.Total)
	}

	page, err := svc.List(context.Background(), actor, transport.ListLeadsRequest{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 4 || len(page.Items) != 1 {
		t.Errorf("page 2 of 4 with size 3: total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestListFiltersByCreatedDateRange(t *testing.T) {
	store := newFakeStore()
	old := store.seed(domain.Lead{
		Name: "old", Status: domain.StatusNew,
		CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	recent := store.seed(domain.Lead{
		Name: "recent", Status: domain.StatusNew,
		CreatedAt: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	svc, _ := newTestService(store)
	actor := uuid.New()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	list, err := svc.List(context.Background(), actor, transport.ListLeadsRequest{CreatedFrom: &from})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 || list.Items[0].ID != recent.ID {
		t.Fatalf("expected only the recent lead, got %+v", list)
	}

	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	list, err = svc.List(context.Background(), actor, transport.ListLeadsRequest{CreatedTo: &to})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 || list.Items[0].ID != old.ID {
		t.Fatalf("expected only the old lead, got %+v", list)
	}
}

func TestQueryPassesDateRangeToStore(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Query(context.Background(), transport.ListLeadsRequest{
		CreatedFrom: &from,
		CreatedTo:   &to,
	}); err != nil {
		t.Fatalf("query failed: %v", err)
	}

	store.mu.Lock()
	got := store.lastList
	store.mu.Unlock()
	if got.CreatedAtFrom == nil || !got.CreatedAtFrom.Equal(from) {
		t.Errorf("CreatedAtFrom not forwarded: %v", got.CreatedAtFrom)
	}
	if got.CreatedAtTo == nil || !got.CreatedAtTo.Equal(to) {
		t.Errorf("CreatedAtTo not forwarded: %v", got.CreatedAtTo)
	}
}

func TestBoardGroupsSessionLeads(t *testing.T) {
	store := newFakeStore()
	store.seed(domain.Lead{Name: "a", Status: domain.StatusNew})
	store.seed(domain.Lead{Name: "b", Status: domain.StatusContacted})
	store.seed(domain.Lead{Name: "c", Status: domain.StatusLost})
	svc, _ := newTestService(store)

	board, err := svc.Board(context.Background(), uuid.New(), transport.BoardRequest{})
	if err != nil {
		t.Fatalf("board failed: %v", err)
	}
	if len(board.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(board.Columns))
	}
	if board.Total != 2 {
		t.Errorf("lost leads must not count on the board, total=%d", board.Total)
	}
}

func TestMarkContactedAdvancesFreshLead(t *testing.T) {
	store := newFakeStore()
	lead := store.seed(domain.Lead{Name: "x", Status: domain.StatusNew})
	svc, _ := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	updated, err := svc.MarkContacted(context.Background(), actor, lead.ID)
	if err != nil {
		t.Fatalf("mark contacted failed: %v", err)
	}
	if updated.Status != domain.StatusContacted {
		t.Errorf("status = %q, want contacted", updated.Status)
	}
	if updated.LastContactedAt == nil {
		t.Error("last contacted timestamp missing")
	}
}

func TestScheduleFollowUpRejectsPast(t *testing.T) {
	store := newFakeStore()
	lead := store.seed(domain.Lead{Name: "x", Status: domain.StatusNew})
	svc, _ := newTestService(store)

	_, err := svc.ScheduleFollowUp(context.Background(), uuid.New(), lead.ID, time.Now().Add(-time.Hour), "")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreNetworkFailureMapsToUnavailable(t *testing.T) {
	store := newFakeStore()
	store.failWith = &net.OpError{Op: "dial", Err: context.DeadlineExceeded}
	svc, _ := newTestService(store)

	_, err := svc.Load(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestLoadFailureKeepsSessionUsable(t *testing.T) {
	store := newFakeStore()
	store.seed(domain.Lead{Name: "survivor", Status: domain.StatusNew})
	svc, _ := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Load(context.Background(), actor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	store.mu.Lock()
	store.failWith = &net.OpError{Op: "read", Err: context.DeadlineExceeded}
	store.mu.Unlock()

	if _, err := svc.Load(context.Background(), actor); err == nil {
		t.Fatal("expected refresh to fail")
	}

	// The previous working set is still served.
	list, err := svc.List(context.Background(), actor, transport.ListLeadsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 || list.Items[0].Name != "survivor" {
		t.Errorf("previous working set lost: %+v", list)
	}
}
