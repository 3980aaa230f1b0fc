package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"family-meal-planner/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordAndQueryDailyUsage(t *testing.T) {
	s := newTestStore(t)

	if err := s.RecordCall("gemini", "gemini-pro", 420*time.Millisecond, false); err != nil {
		t.Fatalf("RecordCall failed: %v", err)
	}
	if err := s.RecordCall("gemini", "gemini-pro", 380*time.Millisecond, false); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordCall("ollama", "llama3", 900*time.Millisecond, true); err != nil {
		t.Fatal(err)
	}

	usage, err := s.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("expected a single day of usage, got %v", usage)
	}
	day := usage[0]
	if want := time.Now().UTC().Format("2006-01-02"); day.Date != want {
		t.Errorf("expected usage grouped under %s, got %q", want, day.Date)
	}
	if day.Calls != 3 {
		t.Errorf("expected 3 calls, got %d", day.Calls)
	}
	if day.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", day.Failures)
	}
	if day.AvgLatencyMS <= 0 {
		t.Errorf("expected positive average latency, got %f", day.AvgLatencyMS)
	}
}

func TestCleanupKeepsRecentRecords(t *testing.T) {
	s := newTestStore(t)

	if err := s.RecordCall("gemini", "gemini-pro", time.Second, false); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected recent record kept, deleted %d", deleted)
	}

	usage, err := s.GetDailyUsage(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(usage) != 1 || usage[0].Calls != 1 {
		t.Errorf("expected record to survive cleanup, got %v", usage)
	}
}
