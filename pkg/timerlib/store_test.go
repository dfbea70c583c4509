package timerlib

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	st, err := OpenSessionStoreFs(fs, "sessions.habit")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	now := time.Now()
	s := st.NewSession("habit-1", "Morning Run", ModeCountdown, 1500, now)
	if err := st.Put(s); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st2, err := OpenSessionStoreFs(fs, "sessions.habit")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	got := st2.Get("habit-1")
	if got == nil {
		t.Fatal("expected session to survive reopen")
	}
	if got.SessionId != s.SessionId {
		t.Errorf("session id: got %s, want %s", got.SessionId, s.SessionId)
	}
	if got.PlannedSeconds != 1500 {
		t.Errorf("planned seconds: got %d, want 1500", got.PlannedSeconds)
	}
	if got.State != StateRunning {
		t.Errorf("state: got %s, want %s", got.State, StateRunning)
	}
	if got.StartedAt != now.UnixMilli() {
		t.Errorf("started at: got %d, want %d", got.StartedAt, now.UnixMilli())
	}
}

func TestSessionStoreCorruptFileStartsFresh(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "sessions.habit", []byte("not a gob stream"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	st, err := OpenSessionStoreFs(fs, "sessions.habit")
	if err != nil {
		t.Fatalf("open over corrupt file: %v", err)
	}
	defer st.Close()
	if n := len(st.Sessions()); n != 0 {
		t.Fatalf("expected empty store, got %d sessions", n)
	}
	s := st.NewSession("habit-1", "", ModeStopwatch, 0, time.Now())
	if err := st.Put(s); err != nil {
		t.Fatalf("put after corrupt open: %v", err)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	st, err := OpenSessionStoreFs(fs, "sessions.habit")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	s := st.NewSession("habit-1", "", ModeCountdown, 60, time.Now())
	if err := st.Put(s); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Delete("habit-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if st.Get("habit-1") != nil {
		t.Fatal("expected session to be gone")
	}
	// deleting an absent entity is a no-op
	if err := st.Delete("habit-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSessionStoreReplaceKeepsOnePerEntity(t *testing.T) {
	fs := afero.NewMemMapFs()
	st, err := OpenSessionStoreFs(fs, "sessions.habit")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	old := st.NewSession("habit-1", "", ModeCountdown, 60, time.Now())
	if err := st.Put(old); err != nil {
		t.Fatalf("put old: %v", err)
	}
	repl := st.NewSession("habit-1", "", ModeCountdown, 120, time.Now())
	if err := st.Put(repl); err != nil {
		t.Fatalf("put replacement: %v", err)
	}
	if n := len(st.Sessions()); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}
	if got := st.Get("habit-1"); got.SessionId != repl.SessionId {
		t.Errorf("expected replacement to win, got session %s", got.SessionId)
	}
}
