// Package collection maintains the in-memory working set of leads behind
// a board session. The store remains the source of truth; the collection
// mirrors it so list and board reads never touch the database.
package collection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"safari_crm_backend/internal/leads/domain"
)

var (
	// ErrSuperseded is returned when a load finishes after a newer load
	// has already been issued. The late result is discarded.
	ErrSuperseded = errors.New("load superseded by a newer refresh")

	// ErrNotInCollection is returned when updating a lead that is not
	// part of the working set.
	ErrNotInCollection = errors.New("lead not in collection")
)

// highlightTTL is how long a freshly inserted lead stays marked as new.
const highlightTTL = 2 * time.Second

// Fetcher retrieves the full working set from the backing store.
type Fetcher interface {
	ListAll(ctx context.Context) ([]domain.Lead, error)
}

// Collection is an ordered, newest-first set of leads. All methods are
// safe for concurrent use.
type Collection struct {
	mu         sync.Mutex
	leads      []domain.Lead
	loaded     bool
	loadSeq    uint64
	highlights map[uuid.UUID]time.Time
	subs       []func()

	now func() time.Time
}

// New creates an empty, unloaded collection.
func New() *Collection {
	return &Collection{
		highlights: make(map[uuid.UUID]time.Time),
		now:        time.Now,
	}
}

// Load replaces the working set with a fresh fetch from the store.
// Each call claims a monotonically increasing token before fetching;
// a result whose token is no longer the latest is discarded so slow
// responses can never overwrite newer data. A failed fetch leaves the
// previous working set intact.
func (c *Collection) Load(ctx context.Context, fetcher Fetcher) ([]domain.Lead, error) {
	c.mu.Lock()
	c.loadSeq++
	token := c.loadSeq
	c.mu.Unlock()

	leads, err := fetcher.ListAll(ctx)

	c.mu.Lock()
	if token != c.loadSeq {
		c.mu.Unlock()
		return nil, ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.leads = make([]domain.Lead, len(leads))
	copy(c.leads, leads)
	c.loaded = true
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify()
	return snapshot, nil
}

// Insert places the lead at the front of the working set and marks it
// for the short-lived new-lead highlight. If the lead is already
// present it is updated in place instead.
func (c *Collection) Insert(lead domain.Lead) {
	c.mu.Lock()
	if idx := c.indexOfLocked(lead.ID); idx >= 0 {
		c.leads[idx] = lead
	} else {
		c.leads = append([]domain.Lead{lead}, c.leads...)
		c.highlights[lead.ID] = c.now().Add(highlightTTL)
	}
	c.mu.Unlock()

	c.notify()
}

// Update replaces the lead in place, preserving its position in the
// ordering. Returns ErrNotInCollection if the lead is absent.
func (c *Collection) Update(lead domain.Lead) error {
	c.mu.Lock()
	idx := c.indexOfLocked(lead.ID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotInCollection
	}
	c.leads[idx] = lead
	c.mu.Unlock()

	c.notify()
	return nil
}

// Remove deletes the lead from the working set. Removing an absent
// lead is a no-op; the returned bool reports whether anything changed.
func (c *Collection) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	idx := c.indexOfLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.leads = append(c.leads[:idx], c.leads[idx+1:]...)
	delete(c.highlights, id)
	c.mu.Unlock()

	c.notify()
	return true
}

// Get returns the lead with the given id, if present.
func (c *Collection) Get(id uuid.UUID) (domain.Lead, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOfLocked(id)
	if idx < 0 {
		return domain.Lead{}, false
	}
	return c.leads[idx], true
}

// Snapshot returns a copy of the working set in its current order.
func (c *Collection) Snapshot() []domain.Lead {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Loaded reports whether an initial load has completed.
func (c *Collection) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Len returns the number of leads in the working set.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.leads)
}

// HighlightedIDs returns the ids of leads still inside their new-lead
// highlight window. Expired markers are pruned on the way out.
func (c *Collection) HighlightedIDs() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	ids := make([]uuid.UUID, 0, len(c.highlights))
	for id, expiry := range c.highlights {
		if now.After(expiry) {
			delete(c.highlights, id)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// OnChange registers a callback invoked after every mutation that
// changed the working set. Callbacks run outside the collection lock
// and must not block.
func (c *Collection) OnChange(fn func()) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Collection) notify() {
	c.mu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (c *Collection) snapshotLocked() []domain.Lead {
	out := make([]domain.Lead, len(c.leads))
	copy(out, c.leads)
	return out
}

func (c *Collection) indexOfLocked(id uuid.UUID) int {
	for i := range c.leads {
		if c.leads[i].ID == id {
			return i
		}
	}
	return -1
}
