package wake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

func TestSchedulerFiresEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan Event, 1)
	s := New(ctx, nil, func(ev Event) {
		fired <- ev
	})
	id, err := s.Schedule("habit-1", time.Now().Add(20*time.Millisecond), "Run")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if id == "" {
		t.Fatal("expected event id")
	}
	select {
	case ev := <-fired:
		if ev.EntityId != "habit-1" || ev.Label != "Run" {
			t.Errorf("payload: %+v", ev)
		}
		if ev.Status != StatusFired {
			t.Errorf("status: got %s, want %s", ev.Status, StatusFired)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never fired")
	}
}

func TestSchedulerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan Event, 1)
	s := New(ctx, nil, func(ev Event) {
		fired <- ev
	})
	id, err := s.Schedule("habit-1", time.Now().Add(60*time.Millisecond), "")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.Cancel(id)
	select {
	case ev := <-fired:
		t.Fatalf("cancelled event fired: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
	// cancelling again, and cancelling the empty id, are no-ops
	s.Cancel(id)
	s.Cancel("")
}

func TestSchedulerReplacesPerEntity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var firedIds []string
	s := New(ctx, nil, func(ev Event) {
		mu.Lock()
		firedIds = append(firedIds, ev.Id)
		mu.Unlock()
	})
	if _, err := s.Schedule("habit-1", time.Now().Add(40*time.Millisecond), ""); err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	second, err := s.Schedule("habit-1", time.Now().Add(60*time.Millisecond), "")
	if err != nil {
		t.Fatalf("second schedule: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(firedIds) != 1 {
		t.Fatalf("fired %d events, want 1 (replacement must drop the old event)", len(firedIds))
	}
	if firedIds[0] != second {
		t.Errorf("fired id: got %s, want replacement %s", firedIds[0], second)
	}
}

func TestSchedulerCancelEntity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan Event, 1)
	s := New(ctx, nil, func(ev Event) {
		fired <- ev
	})
	if _, err := s.Schedule("habit-1", time.Now().Add(60*time.Millisecond), ""); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.CancelEntity("habit-1")
	select {
	case ev := <-fired:
		t.Fatalf("event fired after CancelEntity: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSchedulerOverdueEventFiresImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan Event, 1)
	s := New(ctx, nil, func(ev Event) {
		fired <- ev
	})
	// trigger time already in the past, e.g. re-armed after suspension
	if _, err := s.Schedule("habit-1", time.Now().Add(-time.Minute), ""); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("overdue event never fired")
	}
}

func TestSchedulerPermissionDenied(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	denied := CapabilityFunc(func() bool { return false })
	s := New(ctx, denied, func(ev Event) {
		t.Errorf("unexpected trigger: %+v", ev)
	})
	if _, err := s.Schedule("habit-1", time.Now(), ""); !errors.Is(err, timerlib.ErrPermissionDenied) {
		t.Fatalf("schedule: got %v, want ErrPermissionDenied", err)
	}
	if _, _, err := s.ScheduleCron("habit-1", "* * * * *", ""); !errors.Is(err, timerlib.ErrPermissionDenied) {
		t.Fatalf("schedule cron: got %v, want ErrPermissionDenied", err)
	}
}

func TestScheduleCronValidation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, nil, func(Event) {})
	if _, _, err := s.ScheduleCron("habit-1", "not a cron", ""); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	_, next, err := s.ScheduleCron("habit-1", "0 7 * * *", "Wake up")
	if err != nil {
		t.Fatalf("schedule cron: %v", err)
	}
	if !next.After(time.Now()) {
		t.Errorf("next occurrence %s is not in the future", next)
	}
	if next.Hour() != 7 || next.Minute() != 0 {
		t.Errorf("next occurrence: got %s, want 07:00", next)
	}
}

func TestClassify(t *testing.T) {
	now := time.Now()
	st, err := timerlib.OpenSessionStoreFs(afero.NewMemMapFs(), "sessions.habit")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	mk := func(mode timerlib.TimerMode, planned int64, startedAgo time.Duration, state timerlib.SessionState) *timerlib.TimerSession {
		s := st.NewSession(timerlib.NewSessionId(), "", mode, planned, now.Add(-startedAgo))
		s.State = state
		return s
	}

	overdue := mk(timerlib.ModeCountdown, 60, 2*time.Minute, timerlib.StateRunning)
	running := mk(timerlib.ModeCountdown, 3600, time.Minute, timerlib.StateRunning)
	paused := mk(timerlib.ModeCountdown, 60, 2*time.Minute, timerlib.StatePaused)
	watch := mk(timerlib.ModeStopwatch, 0, 3*time.Hour, timerlib.StateRunning)
	stale := mk(timerlib.ModeCountdown, 60, time.Hour, timerlib.StateCancelled)

	expired, live := Classify([]*timerlib.TimerSession{overdue, running, paused, watch, stale}, now)
	if len(expired) != 1 || expired[0] != overdue {
		t.Fatalf("expired: got %d sessions", len(expired))
	}
	if len(live) != 3 {
		t.Fatalf("live: got %d sessions, want 3", len(live))
	}
	for _, s := range live {
		if s == stale {
			t.Error("cancelled session must not be resurrected")
		}
	}
}
