package engine

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/habits"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/wake"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type testEnv struct {
	engine *Engine
	store  *timerlib.SessionStore
}

func newTestEngine(t *testing.T, cfg *Config) *testEnv {
	t.Helper()
	st, err := timerlib.OpenSessionStoreFs(afero.NewMemMapFs(), "sessions.habit")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Store = st
	if cfg.Labels == nil {
		cfg.Labels = habits.StaticLookup{"habit-1": "Morning Run"}
	}
	if cfg.TickInterval == 0 {
		// keep background ticks out of the way unless a test wants them
		cfg.TickInterval = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := New(ctx, testLogger(), cfg)
	t.Cleanup(func() {
		e.Close()
		cancel()
	})
	return &testEnv{engine: e, store: st}
}

func TestStartTimerValidation(t *testing.T) {
	env := newTestEngine(t, nil)
	if _, err := env.engine.StartTimer("", timerlib.ModeCountdown, time.Minute, ""); err == nil {
		t.Error("expected error for empty entity id")
	}
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, 0, ""); err == nil {
		t.Error("expected error for zero countdown duration")
	}
}

func TestStartTimerResolvesLabel(t *testing.T) {
	env := newTestEngine(t, nil)
	s, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Hour, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Label != "Morning Run" {
		t.Errorf("label: got %q, want Morning Run", s.Label)
	}
	if s.WakeEventId == "" {
		t.Error("countdown must carry a wake event")
	}
	// unknown entity falls back to its raw id
	s2, err := env.engine.StartTimer("habit-x", timerlib.ModeStopwatch, 0, "")
	if err != nil {
		t.Fatalf("start stopwatch: %v", err)
	}
	if s2.Label != "habit-x" {
		t.Errorf("fallback label: got %q", s2.Label)
	}
	if s2.WakeEventId != "" {
		t.Error("stopwatch must not carry a wake event")
	}
}

func TestStartTimerReplacesSession(t *testing.T) {
	env := newTestEngine(t, nil)
	old, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Hour, "")
	if err != nil {
		t.Fatalf("start old: %v", err)
	}
	repl, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, 2*time.Hour, "")
	if err != nil {
		t.Fatalf("start replacement: %v", err)
	}
	if repl.SessionId == old.SessionId {
		t.Fatal("replacement must be a new logical session")
	}
	sessions := env.engine.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("sessions: got %d, want 1", len(sessions))
	}
	if sessions[0].SessionId != repl.SessionId {
		t.Error("old session survived replacement")
	}
}

func TestStartTimerPermissionDenied(t *testing.T) {
	env := newTestEngine(t, &Config{
		Capability: wake.CapabilityFunc(func() bool { return false }),
	})
	_, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Minute, "")
	if !errors.Is(err, timerlib.ErrPermissionDenied) {
		t.Fatalf("start: got %v, want ErrPermissionDenied", err)
	}
	// no partial session may be left behind
	if env.engine.Session("habit-1") != nil {
		t.Fatal("denied start left a session in the store")
	}
	// stopwatches need no wake event and still work
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeStopwatch, 0, ""); err != nil {
		t.Fatalf("stopwatch under denial: %v", err)
	}
}

func TestPauseResumeReanchors(t *testing.T) {
	env := newTestEngine(t, nil)
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Hour, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	paused, err := env.engine.PauseTimer("habit-1")
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.State != timerlib.StatePaused {
		t.Fatalf("state: got %s", paused.State)
	}
	if paused.WakeEventId != "" {
		t.Error("paused session must carry no wake event")
	}
	if paused.IsTicking() {
		t.Error("paused session must have no ticker")
	}
	frozen := paused.Elapsed(time.Now())

	// pausing twice is an error
	if _, err := env.engine.PauseTimer("habit-1"); !errors.Is(err, timerlib.ErrSessionNotRunning) {
		t.Fatalf("second pause: got %v, want ErrSessionNotRunning", err)
	}

	resumed, err := env.engine.ResumeTimer("habit-1")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.State != timerlib.StateRunning {
		t.Fatalf("state after resume: got %s", resumed.State)
	}
	if resumed.WakeEventId == "" {
		t.Error("resumed countdown must carry a fresh wake event")
	}
	// elapsed continues from the frozen value, not from zero and not from
	// the original anchor
	got := resumed.Elapsed(time.Now())
	if got < frozen || got > frozen+2*time.Second {
		t.Errorf("elapsed after resume: got %s, frozen was %s", got, frozen)
	}

	if _, err := env.engine.ResumeTimer("habit-1"); !errors.Is(err, timerlib.ErrSessionNotPaused) {
		t.Fatalf("second resume: got %v, want ErrSessionNotPaused", err)
	}
}

func TestPauseResumeConcurrentWithStatusReads(t *testing.T) {
	env := newTestEngine(t, nil)
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Hour, ""); err != nil {
		t.Fatalf("start: %v", err)
	}

	// a status handler keeps reading while pause/resume rewrite the anchor;
	// every observed value must be sane, never torn
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			s := env.engine.Session("habit-1")
			if s == nil {
				continue
			}
			now := time.Now()
			snap := s.Snapshot(now)
			if snap.Elapsed < 0 || snap.Elapsed > time.Hour {
				t.Errorf("torn elapsed: %s", snap.Elapsed)
				return
			}
			if snap.Remaining > time.Hour {
				t.Errorf("torn remaining: %s", snap.Remaining)
				return
			}
			_ = s.Elapsed(now)
			_ = s.Remaining(now)
			_ = s.Expired(now)
		}
	}()

	for i := 0; i < 50; i++ {
		if _, err := env.engine.PauseTimer("habit-1"); err != nil {
			t.Fatalf("pause %d: %v", i, err)
		}
		if _, err := env.engine.ResumeTimer("habit-1"); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestResumeDenialRollsBackToPaused(t *testing.T) {
	allowed := true
	var mu sync.Mutex
	env := newTestEngine(t, &Config{
		Capability: wake.CapabilityFunc(func() bool {
			mu.Lock()
			defer mu.Unlock()
			return allowed
		}),
	})
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Hour, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := env.engine.PauseTimer("habit-1"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	mu.Lock()
	allowed = false
	mu.Unlock()
	if _, err := env.engine.ResumeTimer("habit-1"); !errors.Is(err, timerlib.ErrPermissionDenied) {
		t.Fatalf("resume under denial: got %v, want ErrPermissionDenied", err)
	}
	s := env.engine.Session("habit-1")
	if s == nil || s.State != timerlib.StatePaused {
		t.Fatal("failed resume must leave the session paused")
	}
}

func TestCancelTimer(t *testing.T) {
	cancelled := make(chan string, 1)
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnCancelled: func(entityId string) { cancelled <- entityId },
		},
	})
	if err := env.engine.CancelTimer("habit-1"); !errors.Is(err, timerlib.ErrSessionNotFound) {
		t.Fatalf("cancel absent: got %v, want ErrSessionNotFound", err)
	}
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Hour, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := env.engine.CancelTimer("habit-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if env.engine.Session("habit-1") != nil {
		t.Fatal("cancelled session must be deleted")
	}
	select {
	case id := <-cancelled:
		if id != "habit-1" {
			t.Errorf("cancelled entity: got %s", id)
		}
	default:
		t.Fatal("OnCancelled never fired")
	}
}

func TestCompletionConvergesToOne(t *testing.T) {
	var mu sync.Mutex
	completions := 0
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnCompleted: func(rec *timerlib.CompletedSession) {
				mu.Lock()
				completions++
				mu.Unlock()
			},
		},
	})
	// an overdue countdown, anchored two minutes in the past
	s := env.store.NewSession("habit-1", "Run", timerlib.ModeCountdown, 60, time.Now().Add(-2*time.Minute))
	if err := env.store.Put(s); err != nil {
		t.Fatalf("put: %v", err)
	}

	// every trigger reports at once: ticks, the wake callback, rearm
	var wg sync.WaitGroup
	for _, src := range []CompletionSource{SourceTick, SourceWake, SourceRearm, SourceTick, SourceWake} {
		wg.Add(1)
		go func(src CompletionSource) {
			defer wg.Done()
			env.engine.NotifyPossibleCompletion("habit-1", src)
		}(src)
	}
	wg.Wait()

	mu.Lock()
	got := completions
	mu.Unlock()
	if got != 1 {
		t.Fatalf("completions: got %d, want exactly 1", got)
	}
	if env.engine.Session("habit-1") != nil {
		t.Fatal("completed session must be deleted")
	}
	if sum := env.engine.AlarmSummary(); !sum.IsPlaying || sum.OwnerEntityId != "habit-1" {
		t.Fatalf("alarm summary after completion: %+v", sum)
	}
}

func TestCompletionIgnoresLiveAndPausedSessions(t *testing.T) {
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnCompleted: func(rec *timerlib.CompletedSession) {
				t.Errorf("unexpected completion: %+v", rec)
			},
		},
	})
	live := env.store.NewSession("habit-1", "", timerlib.ModeCountdown, 3600, time.Now())
	if err := env.store.Put(live); err != nil {
		t.Fatalf("put live: %v", err)
	}
	// a stale wake event must not complete a session that is not expired
	env.engine.NotifyPossibleCompletion("habit-1", SourceWake)
	if env.engine.Session("habit-1") == nil {
		t.Fatal("live session must survive a stale trigger")
	}

	paused := env.store.NewSession("habit-2", "", timerlib.ModeCountdown, 60, time.Now().Add(-2*time.Minute))
	paused.State = timerlib.StatePaused
	paused.PausedElapsedMs = 30_000
	if err := env.store.Put(paused); err != nil {
		t.Fatalf("put paused: %v", err)
	}
	env.engine.NotifyPossibleCompletion("habit-2", SourceWake)
	if env.engine.Session("habit-2") == nil {
		t.Fatal("paused session must survive a stale wake event")
	}
	// unknown entities are a silent no-op
	env.engine.NotifyPossibleCompletion("habit-x", SourceTick)
}

func TestNewSessionNotBlockedByPredecessorCompletion(t *testing.T) {
	var mu sync.Mutex
	completed := []string{}
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnCompleted: func(rec *timerlib.CompletedSession) {
				mu.Lock()
				completed = append(completed, rec.SessionId)
				mu.Unlock()
			},
		},
	})
	first := env.store.NewSession("habit-1", "", timerlib.ModeCountdown, 60, time.Now().Add(-2*time.Minute))
	if err := env.store.Put(first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	env.engine.NotifyPossibleCompletion("habit-1", SourceTick)
	env.engine.StopAlarm()

	second := env.store.NewSession("habit-1", "", timerlib.ModeCountdown, 60, time.Now().Add(-2*time.Minute))
	if err := env.store.Put(second); err != nil {
		t.Fatalf("put second: %v", err)
	}
	env.engine.NotifyPossibleCompletion("habit-1", SourceWake)

	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 2 {
		t.Fatalf("completions: got %d, want 2 (gate is per session, not per entity)", len(completed))
	}
	if completed[0] == completed[1] {
		t.Error("expected two distinct session ids")
	}
}

func TestRearmAllPersistedSessions(t *testing.T) {
	var mu sync.Mutex
	completions := 0
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnCompleted: func(rec *timerlib.CompletedSession) {
				mu.Lock()
				completions++
				mu.Unlock()
			},
		},
	})
	now := time.Now()
	overdue := env.store.NewSession("habit-1", "", timerlib.ModeCountdown, 60, now.Add(-2*time.Minute))
	liveCd := env.store.NewSession("habit-2", "", timerlib.ModeCountdown, 3600, now.Add(-time.Minute))
	pausedS := env.store.NewSession("habit-3", "", timerlib.ModeCountdown, 60, now.Add(-time.Hour))
	pausedS.State = timerlib.StatePaused
	pausedS.PausedElapsedMs = 10_000
	watch := env.store.NewSession("habit-4", "", timerlib.ModeStopwatch, 0, now.Add(-3*time.Hour))
	for _, s := range []*timerlib.TimerSession{overdue, liveCd, pausedS, watch} {
		if err := env.store.Put(s); err != nil {
			t.Fatalf("put %s: %v", s.EntityId, err)
		}
	}

	rearmed, completed, err := env.engine.RearmAllPersistedSessions()
	if err != nil {
		t.Fatalf("rearm: %v", err)
	}
	if completed != 1 {
		t.Errorf("completed: got %d, want 1", completed)
	}
	if rearmed != 3 {
		t.Errorf("rearmed: got %d, want 3", rearmed)
	}
	mu.Lock()
	if completions != 1 {
		t.Errorf("completion events: got %d, want 1", completions)
	}
	mu.Unlock()

	if env.engine.Session("habit-1") != nil {
		t.Error("overdue session must be completed and deleted")
	}
	if s := env.engine.Session("habit-2"); s == nil || s.WakeEventId == "" {
		t.Error("live countdown must get a fresh wake event")
	}
	if s := env.engine.Session("habit-3"); s == nil || s.State != timerlib.StatePaused || s.Elapsed(time.Now()) != 10*time.Second {
		t.Error("paused session must stay frozen exactly as it was")
	}
	if s := env.engine.Session("habit-4"); s == nil || !s.IsTicking() {
		t.Error("running stopwatch must get its ticker back")
	}
}

func TestWakeFiredCompletesCountdown(t *testing.T) {
	done := make(chan *timerlib.CompletedSession, 1)
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnCompleted: func(rec *timerlib.CompletedSession) { done <- rec },
		},
	})
	if _, err := env.engine.StartTimer("habit-1", timerlib.ModeCountdown, time.Second, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case rec := <-done:
		if rec.EntityId != "habit-1" {
			t.Errorf("completed entity: got %s", rec.EntityId)
		}
		if rec.Source != string(SourceWake) && rec.Source != string(SourceTick) {
			t.Errorf("source: got %s", rec.Source)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("countdown never completed")
	}
}

func TestSetReminder(t *testing.T) {
	reminded := make(chan string, 1)
	env := newTestEngine(t, &Config{
		Events: &Events{
			OnReminder: func(entityId, label string) { reminded <- entityId },
		},
	})
	if _, err := env.engine.SetReminder("habit-1", "bogus", ""); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	next, err := env.engine.SetReminder("habit-1", "0 7 * * *", "")
	if err != nil {
		t.Fatalf("set reminder: %v", err)
	}
	if !next.After(time.Now()) {
		t.Errorf("next ring %s is not in the future", next)
	}
	env.engine.ClearReminder("habit-1")
	select {
	case id := <-reminded:
		t.Fatalf("cleared reminder fired for %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSyncForeground(t *testing.T) {
	env := newTestEngine(t, nil)
	if err := env.engine.SyncForeground("habit-x"); !errors.Is(err, timerlib.ErrSessionNotFound) {
		t.Fatalf("sync absent: got %v, want ErrSessionNotFound", err)
	}
	// a session that expired while no ticker was attached completes on the
	// foreground sync
	s := env.store.NewSession("habit-1", "", timerlib.ModeCountdown, 60, time.Now().Add(-2*time.Minute))
	if err := env.store.Put(s); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := env.engine.SyncForeground("habit-1"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if env.engine.Session("habit-1") != nil {
		t.Fatal("expired session must complete on foreground sync")
	}
}
