package timerlib

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	h, err := OpenHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryRecordAndList(t *testing.T) {
	h := openTestHistory(t)
	base := time.Now().UnixMilli()
	for i, entity := range []string{"habit-1", "habit-2", "habit-1"} {
		err := h.RecordCompletion(&CompletedSession{
			SessionId:      NewSessionId(),
			EntityId:       entity,
			Label:          "Session",
			Mode:           ModeCountdown,
			PlannedSeconds: 60,
			ElapsedMs:      60_000,
			StartedAt:      base - 60_000,
			CompletedAt:    base + int64(i),
			Source:         "tick",
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	all, err := h.List("", 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list all: got %d records, want 3", len(all))
	}
	// most recent first
	if all[0].CompletedAt < all[1].CompletedAt {
		t.Error("expected descending completed_at order")
	}

	one, err := h.List("habit-1", 0)
	if err != nil {
		t.Fatalf("list habit-1: %v", err)
	}
	if len(one) != 2 {
		t.Fatalf("list habit-1: got %d records, want 2", len(one))
	}
	for _, rec := range one {
		if rec.EntityId != "habit-1" {
			t.Errorf("unexpected entity %s", rec.EntityId)
		}
	}
}

func TestHistoryListLimit(t *testing.T) {
	h := openTestHistory(t)
	for i := 0; i < 5; i++ {
		if err := h.RecordCompletion(&CompletedSession{
			SessionId: NewSessionId(),
			EntityId:  "habit-1",
			Mode:      ModeCountdown,
			StartedAt: int64(i),
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	recs, err := h.List("habit-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("limit: got %d records, want 2", len(recs))
	}
}

func TestHistoryFillsCompletedAt(t *testing.T) {
	h := openTestHistory(t)
	rec := &CompletedSession{
		SessionId: NewSessionId(),
		EntityId:  "habit-1",
		Mode:      ModeCountdown,
	}
	if err := h.RecordCompletion(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.CompletedAt == 0 {
		t.Fatal("expected CompletedAt to be filled in")
	}
}
