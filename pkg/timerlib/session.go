// Package timerlib provides the core timer engine for the habit tracker:
// durable timer sessions, wall-clock reconciliation, and the alarm playback
// service. All elapsed and remaining values are derived from a wall-clock
// anchor, never from accumulated tick counts, so they stay correct across
// arbitrary process suspension.
package timerlib

import (
	"sync"
	"time"
)

// TimerMode selects between a countdown with a planned duration and an
// open-ended stopwatch.
type TimerMode string

const (
	ModeCountdown TimerMode = "countdown"
	ModeStopwatch TimerMode = "stopwatch"
)

// SessionState is the lifecycle state of a timer session.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateRunning   SessionState = "running"
	StatePaused    SessionState = "paused"
	StateCompleted SessionState = "completed"
	StateCancelled SessionState = "cancelled"
)

// TimerSession is the durable record of one in-progress timer for one
// tracked habit. At most one session exists per EntityId at a time.
type TimerSession struct {
	// SessionId is the unique identifier of this logical timer run.
	SessionId string `json:"session_id"`
	// EntityId references the tracked habit; it is not owned by the
	// timer engine, only referenced.
	EntityId string `json:"entity_id"`
	// Label is the display name used for the alarm; captured at start so
	// the wake payload can reconstruct context without live lookups.
	Label string `json:"label"`
	// Mode selects countdown or stopwatch behaviour.
	Mode TimerMode `json:"mode"`
	// StartedAt is the wall-clock anchor in epoch milliseconds. While the
	// session is running, elapsed = now - StartedAt.
	StartedAt int64 `json:"started_at"`
	// PlannedSeconds is the countdown duration. Zero for stopwatch.
	PlannedSeconds int64 `json:"planned_seconds,omitempty"`
	// PausedElapsedMs freezes the elapsed value at the pause moment.
	// Only meaningful while State == StatePaused.
	PausedElapsedMs int64 `json:"paused_elapsed_ms,omitempty"`
	// State is the current lifecycle state.
	State SessionState `json:"state"`
	// WakeEventId is the live wake-scheduler entry for this session, or
	// empty when none is scheduled (paused sessions, stopwatches).
	WakeEventId string `json:"wake_event_id,omitempty"`
	// DateAdded is the time the session was created.
	DateAdded time.Time `json:"date_added"`

	// mu is shared with the owning store for synchronized field access.
	mu *sync.RWMutex
	// tAllocMu protects tAlloc (value type, not pointer, for GOB encoding)
	tAllocMu sync.RWMutex
	// tAlloc is the cooperative ticker currently driving this session.
	tAlloc *Ticker
}

// SessionsMap indexes timer sessions by their EntityId.
type SessionsMap map[string]*TimerSession

func newSession(mu *sync.RWMutex, entityId, label string, mode TimerMode, plannedSeconds int64, now time.Time) *TimerSession {
	return &TimerSession{
		SessionId:      NewSessionId(),
		EntityId:       entityId,
		Label:          label,
		Mode:           mode,
		StartedAt:      now.UnixMilli(),
		PlannedSeconds: plannedSeconds,
		State:          StateRunning,
		DateAdded:      now,
		mu:             mu,
	}
}

// Elapsed reconciles the session's elapsed time against the wall clock.
// Paused sessions report the elapsed value frozen at the pause moment.
func (s *TimerSession) Elapsed(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsedLocked(now)
}

func (s *TimerSession) elapsedLocked(now time.Time) time.Duration {
	if s.State == StatePaused {
		return time.Duration(s.PausedElapsedMs) * time.Millisecond
	}
	d := now.UnixMilli() - s.StartedAt
	if d < 0 {
		d = 0
	}
	return time.Duration(d) * time.Millisecond
}

// Remaining reports how much of a countdown is left, clamped at zero.
// It is always zero for stopwatch sessions.
func (s *TimerSession) Remaining(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remainingLocked(now)
}

func (s *TimerSession) remainingLocked(now time.Time) time.Duration {
	if s.Mode != ModeCountdown {
		return 0
	}
	planned := time.Duration(s.PlannedSeconds) * time.Second
	rem := planned - s.elapsedLocked(now)
	if rem < 0 {
		rem = 0
	}
	return rem
}

// CurrentState reads the lifecycle state under the session lock. Engine
// goroutines must use this instead of the raw field; the field stays
// exported for GOB and for the store's own persistence path.
func (s *TimerSession) CurrentState() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

// Freeze transitions a running session to paused: the elapsed value as of
// now is captured once, and the wake event reference is cleared so nothing
// fires while paused. Returns the frozen elapsed and the wake event id that
// was live, for the caller to cancel.
func (s *TimerSession) Freeze(now time.Time) (elapsed time.Duration, wakeEventId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed = s.elapsedLocked(now)
	wakeEventId = s.WakeEventId
	s.State = StatePaused
	s.PausedElapsedMs = elapsed.Milliseconds()
	s.WakeEventId = ""
	return elapsed, wakeEventId
}

// Reanchor transitions a paused session back to running, moving the
// wall-clock anchor so that elapsed continues from the frozen value.
// Returns the frozen elapsed for a possible Refreeze rollback.
func (s *TimerSession) Reanchor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	frozen := time.Duration(s.PausedElapsedMs) * time.Millisecond
	s.StartedAt = now.Add(-frozen).UnixMilli()
	s.PausedElapsedMs = 0
	s.State = StateRunning
	return frozen
}

// Refreeze restores the paused state after a failed resume, keeping the
// elapsed value the resume attempt started from.
func (s *TimerSession) Refreeze(frozen time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = StatePaused
	s.PausedElapsedMs = frozen.Milliseconds()
	s.WakeEventId = ""
}

// SetWakeEvent records the live wake-scheduler entry for this session.
func (s *TimerSession) SetWakeEvent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WakeEventId = id
}

// SessionSnapshot is a point-in-time view of a session taken under one
// lock acquisition, so a concurrent pause or resume can never tear the
// values a status response is built from.
type SessionSnapshot struct {
	SessionId      string
	EntityId       string
	Label          string
	Mode           TimerMode
	State          SessionState
	StartedAt      int64
	PlannedSeconds int64
	WakeEventId    string
	Elapsed        time.Duration
	Remaining      time.Duration
}

// Snapshot captures every reportable field plus the reconciled elapsed and
// remaining values as of now.
func (s *TimerSession) Snapshot(now time.Time) SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		SessionId:      s.SessionId,
		EntityId:       s.EntityId,
		Label:          s.Label,
		Mode:           s.Mode,
		State:          s.State,
		StartedAt:      s.StartedAt,
		PlannedSeconds: s.PlannedSeconds,
		WakeEventId:    s.WakeEventId,
		Elapsed:        s.elapsedLocked(now),
		Remaining:      s.remainingLocked(now),
	}
}

// Expired reports whether a running countdown has already reached zero.
func (s *TimerSession) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Mode != ModeCountdown || s.State != StateRunning {
		return false
	}
	return s.remainingLocked(now) == 0
}

// Deadline returns the wall-clock moment a running countdown is due.
// The second return is false for stopwatch sessions.
func (s *TimerSession) Deadline() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Mode != ModeCountdown {
		return time.Time{}, false
	}
	anchor := time.UnixMilli(s.StartedAt)
	return anchor.Add(time.Duration(s.PlannedSeconds) * time.Second), true
}

// getTAlloc returns the current ticker with proper synchronization.
func (s *TimerSession) getTAlloc() *Ticker {
	s.tAllocMu.RLock()
	defer s.tAllocMu.RUnlock()
	return s.tAlloc
}

// setTAlloc sets the ticker with proper synchronization.
func (s *TimerSession) setTAlloc(t *Ticker) {
	s.tAllocMu.Lock()
	defer s.tAllocMu.Unlock()
	s.tAlloc = t
}

// clearTAlloc clears the ticker with proper synchronization.
func (s *TimerSession) clearTAlloc() {
	s.tAllocMu.Lock()
	defer s.tAllocMu.Unlock()
	s.tAlloc = nil
}

// AttachTicker registers the cooperative ticker driving this session,
// replacing (but not stopping) any previous one.
func (s *TimerSession) AttachTicker(t *Ticker) {
	s.setTAlloc(t)
}

// ActiveTicker returns the attached cooperative ticker, or nil.
func (s *TimerSession) ActiveTicker() *Ticker {
	return s.getTAlloc()
}

// IsTicking returns true if a cooperative ticker is currently attached.
func (s *TimerSession) IsTicking() bool {
	s.tAllocMu.RLock()
	defer s.tAllocMu.RUnlock()
	return s.tAlloc != nil
}

// StopTicker detaches and stops the cooperative ticker, if any.
// The session record itself is untouched.
func (s *TimerSession) StopTicker() {
	s.tAllocMu.Lock()
	defer s.tAllocMu.Unlock()
	if s.tAlloc == nil {
		return
	}
	s.tAlloc.Stop()
	s.tAlloc = nil
}
