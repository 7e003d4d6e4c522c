package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/platform/logger"
)

type countingReader struct {
	calls   int
	lookups Lookups
	err     error
}

func (c *countingReader) Lookups(ctx context.Context) (Lookups, error) {
	c.calls++
	if c.err != nil {
		return Lookups{}, c.err
	}
	return c.lookups, nil
}

func testLookups() Lookups {
	return Lookups{
		Sources: []domain.LookupItem{
			{Code: "website", Label: "Website", SortOrder: 1},
			{Code: "referral", Label: "Referral", SortOrder: 2},
		},
		Destinations: []domain.LookupItem{
			{Code: "masai-mara", Label: "Masai Mara", SortOrder: 1},
		},
		TripTypes: []domain.LookupItem{
			{Code: "game-drive", Label: "Game Drive", SortOrder: 1},
		},
	}
}

func newTestCache(t *testing.T, inner Reader, ttl time.Duration) (*CachedReader, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCachedReader(inner, client, ttl, logger.New("development")), mr
}

func TestCachedReaderServesSecondReadFromCache(t *testing.T) {
	inner := &countingReader{lookups: testLookups()}
	cache, _ := newTestCache(t, inner, time.Minute)

	first, err := cache.Lookups(context.Background())
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	second, err := cache.Lookups(context.Background())
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("inner reader hit %d times, want 1", inner.calls)
	}
	if len(second.Sources) != len(first.Sources) || second.Sources[0].Code != "website" {
		t.Errorf("cached payload differs: %+v", second)
	}
}

func TestCachedReaderExpiry(t *testing.T) {
	inner := &countingReader{lookups: testLookups()}
	cache, mr := newTestCache(t, inner, time.Minute)

	if _, err := cache.Lookups(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Lookups(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("expired cache must fall through, inner hit %d times", inner.calls)
	}
}

func TestCachedReaderInvalidate(t *testing.T) {
	inner := &countingReader{lookups: testLookups()}
	cache, _ := newTestCache(t, inner, time.Minute)

	if _, err := cache.Lookups(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	cache.Invalidate(context.Background())
	if _, err := cache.Lookups(context.Background()); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("invalidate must force a reload, inner hit %d times", inner.calls)
	}
}

func TestCachedReaderCorruptPayloadFallsThrough(t *testing.T) {
	inner := &countingReader{lookups: testLookups()}
	cache, mr := newTestCache(t, inner, time.Minute)

	mr.Set(cacheKey, "{not json")

	lookups, err := cache.Lookups(context.Background())
	if err != nil {
		t.Fatalf("corrupt cache must not fail the read: %v", err)
	}
	if inner.calls != 1 || len(lookups.Sources) != 2 {
		t.Errorf("expected fallthrough to inner reader: calls=%d", inner.calls)
	}
}
