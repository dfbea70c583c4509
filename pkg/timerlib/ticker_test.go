package timerlib

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestTickerRequiresRunningSession(t *testing.T) {
	s := newTestSession(ModeCountdown, 60, 0)
	s.State = StatePaused
	if _, err := NewTicker(testLogger(), s, nil); err == nil {
		t.Fatal("expected error for paused session")
	}
	if _, err := NewTicker(testLogger(), nil, nil); err == nil {
		t.Fatal("expected error for nil session")
	}
}

func TestTickerReportsWallClockValues(t *testing.T) {
	s := newTestSession(ModeCountdown, 1500, 10*time.Minute)
	var mu sync.Mutex
	var lastElapsed time.Duration
	tk, err := NewTicker(testLogger(), s, &TickerOpts{
		Interval: 10 * time.Millisecond,
		Handlers: &Handlers{
			TickHandler: func(entityId string, elapsed, remaining time.Duration) {
				mu.Lock()
				lastElapsed = elapsed
				mu.Unlock()
			},
		},
	})
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}
	defer tk.Stop()

	// The very first Sync must already report ~10 minutes: the value comes
	// from the wall-clock anchor, not from counting this ticker's ticks.
	tk.Sync()
	mu.Lock()
	got := lastElapsed
	mu.Unlock()
	if got < 10*time.Minute-time.Second || got > 10*time.Minute+time.Second {
		t.Fatalf("first sync elapsed: got %s, want ~10m", got)
	}
}

func TestTickerCompletesOverdueCountdownOnFirstSync(t *testing.T) {
	// Simulates waking from suspension past the deadline: the next
	// reconciliation completes immediately instead of resuming a countdown.
	s := newTestSession(ModeCountdown, 60, 2*time.Minute)
	completed := make(chan string, 1)
	tk, err := NewTicker(testLogger(), s, &TickerOpts{
		Handlers: &Handlers{
			CompleteHandler: func(entityId string) {
				completed <- entityId
			},
		},
	})
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}
	if done := tk.Sync(); !done {
		t.Fatal("expected Sync to report completion")
	}
	select {
	case id := <-completed:
		if id != "habit-1" {
			t.Errorf("completed entity: got %s, want habit-1", id)
		}
	default:
		t.Fatal("complete handler not invoked")
	}
	if !tk.Stopped() {
		t.Error("ticker should stop itself after completion")
	}
}

func TestTickerCompleteHandlerFiresOnce(t *testing.T) {
	s := newTestSession(ModeCountdown, 60, 2*time.Minute)
	var mu sync.Mutex
	calls := 0
	tk, err := NewTicker(testLogger(), s, &TickerOpts{
		Handlers: &Handlers{
			CompleteHandler: func(entityId string) {
				mu.Lock()
				calls++
				mu.Unlock()
			},
		},
	})
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}
	tk.Sync()
	tk.Sync()
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("complete handler calls: got %d, want 1", calls)
	}
}

func TestTickerStopIsIdempotent(t *testing.T) {
	s := newTestSession(ModeCountdown, 3600, 0)
	tk, err := NewTicker(testLogger(), s, nil)
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}
	tk.Stop()
	tk.Stop()
	if !tk.Stopped() {
		t.Fatal("expected stopped")
	}
}

func TestTickerStoppedHandlerRunsOnExit(t *testing.T) {
	s := newTestSession(ModeCountdown, 3600, 0)
	stopped := make(chan struct{})
	tk, err := NewTicker(testLogger(), s, &TickerOpts{
		Interval: 10 * time.Millisecond,
		Handlers: &Handlers{
			TickerStoppedHandler: func(entityId string) {
				close(stopped)
			},
		},
	})
	if err != nil {
		t.Fatalf("new ticker: %v", err)
	}
	tk.Start()
	tk.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("ticker stopped handler never ran")
	}
}
