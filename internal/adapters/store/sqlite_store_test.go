package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newSQLite(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predictions.db")
	s, err := NewSQLiteStore(path, zap.NewNop(), ttl, time.Hour)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newSQLite(t, time.Hour)
	ctx := context.Background()

	want := record(1)
	if err := s.Record(ctx, want); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	records, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID != want.ID || got.Diagnosis != want.Diagnosis || got.Confidence != want.Confidence {
		t.Fatalf("record fields lost: %+v", got)
	}
	if got.Features["radius_mean"] != want.Features["radius_mean"] {
		t.Fatalf("features lost: %+v", got.Features)
	}
}

func TestSQLiteStoreCleanupDropsExpired(t *testing.T) {
	s := newSQLite(t, time.Millisecond)
	ctx := context.Background()

	old := record(1)
	old.CreatedAt = time.Now().Add(-time.Hour)
	if err := s.Record(ctx, old); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	records, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected expired record to be removed, got %d", len(records))
	}
}

func TestSQLiteStoreRecentLimit(t *testing.T) {
	s := newSQLite(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		r := record(i)
		r.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	records, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "id-4" {
		t.Fatalf("expected newest record first, got %s", records[0].ID)
	}
}
