package timerlib

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultTickInterval is the cooperative tick period while a session is in
// the foreground. Second granularity is all the display needs.
const DefaultTickInterval = time.Second

// Ticker is the cooperative reconciliation loop for one running session.
// It never counts its own ticks: every tick, and every on-demand Sync,
// recomputes elapsed/remaining from the session's wall-clock anchor, so a
// loop that was suspended for any interval reports correct values on the
// very next reconciliation.
//
// The ticker is one of the two completion triggers for a countdown; the
// wake scheduler's fired callback is the other. Both route through the
// completion coordinator, which guarantees at-most-one completion.
type Ticker struct {
	session  *TimerSession
	handlers *Handlers
	l        *log.Logger
	interval time.Duration

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
	// completeOnce keeps this ticker from reporting completion twice on
	// its own; cross-trigger dedup lives in the completion coordinator.
	completeOnce sync.Once
}

// TickerOpts contains optional parameters for NewTicker.
type TickerOpts struct {
	// Interval overrides the 1-second cooperative tick period.
	Interval time.Duration
	Handlers *Handlers
}

// NewTicker creates a ticker for the given session. The session must be in
// StateRunning; the ticker does not mutate the session record.
func NewTicker(l *log.Logger, session *TimerSession, opts *TickerOpts) (*Ticker, error) {
	if session == nil {
		return nil, fmt.Errorf("new ticker: %w", ErrSessionNotFound)
	}
	if session.CurrentState() != StateRunning {
		return nil, fmt.Errorf("new ticker: %w", ErrSessionNotRunning)
	}
	if opts == nil {
		opts = &TickerOpts{}
	}
	if opts.Handlers == nil {
		opts.Handlers = &Handlers{}
	}
	opts.Handlers.setDefault(l)
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{
		session:  session,
		handlers: opts.Handlers,
		l:        l,
		interval: interval,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start launches the tick loop. It returns immediately; reconciliations are
// delivered through the handlers. An initial Sync runs before the first
// tick so resumed sessions display a fresh value at once.
func (t *Ticker) Start() {
	entityId := t.session.EntityId
	safeGo(t.l, nil, "ticker "+entityId, func(r interface{}) {
		t.handlers.ErrorHandler(entityId, fmt.Errorf("ticker panic: %v", r))
	}, t.run)
}

func (t *Ticker) run() {
	defer t.handlers.TickerStoppedHandler(t.session.EntityId)
	if t.Sync() {
		return
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			if t.Sync() {
				return
			}
		}
	}
}

// Sync recomputes elapsed/remaining from the wall clock and reports them.
// It is invoked by the tick loop and must also be called on every
// foreground transition, so time suspended is accounted for immediately.
// It returns true if the session completed during this reconciliation.
func (t *Ticker) Sync() bool {
	s := t.session
	now := time.Now()
	elapsed := s.Elapsed(now)
	remaining := s.Remaining(now)
	t.handlers.TickHandler(s.EntityId, elapsed, remaining)
	if s.Mode == ModeCountdown && remaining == 0 {
		t.completeOnce.Do(func() {
			t.handlers.CompleteHandler(s.EntityId)
		})
		t.Stop()
		return true
	}
	return false
}

// Stop terminates the tick loop. Safe to call multiple times and from any
// goroutine; subsequent calls are no-ops.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stopCh)
}

// Stopped reports whether the tick loop has been stopped.
func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
