package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bankdesk/bank-console/internal/domain"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "reports.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreReturnsNewestReportsFirst(t *testing.T) {
	store := openTestStore(t, Options{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		err := store.SaveReport(domain.Report{
			ID:            id,
			StartedAt:     base.Add(time.Duration(i) * time.Minute),
			TotalRequests: 10 * (i + 1),
		})
		if err != nil {
			t.Fatalf("SaveReport %s: %v", id, err)
		}
	}

	got, err := store.RecentReports(2)
	if err != nil {
		t.Fatalf("RecentReports: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r3" || got[1].ID != "r2" {
		t.Fatalf("unexpected reports %#v", got)
	}
	if got[0].TotalRequests != 30 {
		t.Fatalf("report payload not preserved: %#v", got[0])
	}
}

func TestBoltStoreExpiresReports(t *testing.T) {
	store := openTestStore(t, Options{
		ReportTTL:       time.Hour,
		CleanupInterval: time.Minute,
	})
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.SaveReport(domain.Report{ID: "old", StartedAt: now}); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	// Jump past the TTL: the report is hidden, then removed by the next write.
	now = now.Add(2 * time.Hour)
	got, err := store.RecentReports(10)
	if err != nil {
		t.Fatalf("RecentReports: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired report to be hidden, got %#v", got)
	}

	if err := store.SaveReport(domain.Report{ID: "new", StartedAt: now}); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	var keys int
	if err := store.db.View(func(tx *bolt.Tx) error {
		keys = tx.Bucket([]byte(reportBucket)).Stats().KeyN
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if keys != 1 {
		t.Fatalf("expected cleanup to leave 1 key, got %d", keys)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.SaveReport(domain.Report{ID: "x"}); err != nil {
		t.Fatalf("noop store SaveReport: %v", err)
	}
	if got, _ := store.RecentReports(5); got != nil {
		t.Fatalf("noop store returned reports: %#v", got)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
