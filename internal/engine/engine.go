// Package engine wires the timer subsystems together: the durable session
// store, the wake scheduler, the cooperative tickers and the alarm player.
// It owns the completion coordinator, the idempotency boundary that
// guarantees each timer session finishes exactly once no matter which
// trigger observes it first.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/habits"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/wake"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// reminderPrefix namespaces recurring reminder wake events so they never
// collide with a session's one-shot wake event for the same habit.
const reminderPrefix = "reminder/"

// Events are the engine's outbound notifications. All callbacks are
// optional; nil callbacks are replaced with no-ops.
type Events struct {
	OnTick         func(entityId string, elapsed, remaining time.Duration)
	OnCompleted    func(rec *timerlib.CompletedSession)
	OnCancelled    func(entityId string)
	OnAlarmStarted func(entityId, label string)
	OnAlarmStopped func(entityId string)
	OnPulse        func(entityId string)
	OnReminder     func(entityId, label string)
}

func (ev *Events) setDefault() {
	if ev.OnTick == nil {
		ev.OnTick = func(string, time.Duration, time.Duration) {}
	}
	if ev.OnCompleted == nil {
		ev.OnCompleted = func(*timerlib.CompletedSession) {}
	}
	if ev.OnCancelled == nil {
		ev.OnCancelled = func(string) {}
	}
	if ev.OnAlarmStarted == nil {
		ev.OnAlarmStarted = func(string, string) {}
	}
	if ev.OnAlarmStopped == nil {
		ev.OnAlarmStopped = func(string) {}
	}
	if ev.OnPulse == nil {
		ev.OnPulse = func(string) {}
	}
	if ev.OnReminder == nil {
		ev.OnReminder = func(string, string) {}
	}
}

// Config holds the engine's dependencies and tunables.
type Config struct {
	Store   *timerlib.SessionStore
	History *timerlib.HistoryStore
	Labels  habits.LabelLookup

	// Sounder/Vibrator back the alarm player; either may be nil.
	Sounder  timerlib.Sounder
	Vibrator timerlib.Vibrator
	// AutoStopTimeout bounds an unacknowledged alarm (default 30s).
	AutoStopTimeout time.Duration

	// Capability gates exact wake scheduling (default AlwaysAllowed).
	Capability wake.Capability

	// TickInterval overrides the 1-second cooperative tick (tests only).
	TickInterval time.Duration

	Events *Events
}

// reminder tracks a live recurring reminder for listing and clearing.
type reminder struct {
	EventId  string
	CronExpr string
	Label    string
	NextRing time.Time
}

// Engine is the daemon-side orchestrator for all timer sessions.
type Engine struct {
	l       *log.Logger
	store   *timerlib.SessionStore
	history *timerlib.HistoryStore
	labels  habits.LabelLookup
	player  *timerlib.AlarmPlayer
	wake    *wake.Scheduler
	events  *Events

	tickInterval time.Duration

	// completion gate: entityId -> sessionId that already completed.
	completedMu sync.Mutex
	completed   map[string]string

	reminders timerlib.VMap[string, reminder]
}

// New creates an engine and starts its wake scheduler. The scheduler
// goroutine exits when ctx is cancelled.
func New(ctx context.Context, l *log.Logger, cfg *Config) *Engine {
	if cfg.Events == nil {
		cfg.Events = &Events{}
	}
	cfg.Events.setDefault()
	if cfg.Labels == nil {
		cfg.Labels = habits.StaticLookup(nil)
	}
	e := &Engine{
		l:            l,
		store:        cfg.Store,
		history:      cfg.History,
		labels:       cfg.Labels,
		events:       cfg.Events,
		tickInterval: cfg.TickInterval,
		completed:    make(map[string]string),
		reminders:    timerlib.NewVMap[string, reminder](),
	}
	e.player = timerlib.NewAlarmPlayer(l, cfg.Sounder, cfg.Vibrator, &timerlib.AlarmPlayerOpts{
		AutoStopTimeout: cfg.AutoStopTimeout,
		OnStop:          e.events.OnAlarmStopped,
	})
	e.wake = wake.New(ctx, cfg.Capability, e.wakeFired)
	return e
}

// StartTimer starts a countdown or stopwatch for entityId. If the entity
// already has a session, the old one is torn down first so exactly one
// session and at most one wake event exist per entity. A wake-scheduling
// permission denial fails the start; no partial session is left behind.
func (e *Engine) StartTimer(entityId string, mode timerlib.TimerMode, duration time.Duration, label string) (*timerlib.TimerSession, error) {
	if entityId == "" {
		return nil, fmt.Errorf("start timer: entity id is required")
	}
	if mode == "" {
		mode = timerlib.ModeCountdown
	}
	if mode == timerlib.ModeCountdown && duration < time.Second {
		return nil, fmt.Errorf("start timer: countdown duration must be at least one second")
	}
	if label == "" {
		if name, ok := e.labels.DisplayName(entityId); ok {
			label = name
		} else {
			label = entityId
		}
	}

	// Session replacement: tear down any previous session for the entity.
	if old := e.store.Get(entityId); old != nil {
		e.teardown(old, false)
	}

	now := time.Now()
	plannedSeconds := int64(duration / time.Second)
	if mode == timerlib.ModeStopwatch {
		plannedSeconds = 0
	}
	session := e.store.NewSession(entityId, label, mode, plannedSeconds, now)

	if mode == timerlib.ModeCountdown {
		wakeId, err := e.wake.Schedule(entityId, now.Add(duration), label)
		if err != nil {
			return nil, fmt.Errorf("start timer: %w", err)
		}
		session.SetWakeEvent(wakeId)
	}

	if err := e.store.Put(session); err != nil {
		e.wake.CancelEntity(entityId)
		return nil, fmt.Errorf("start timer: %w", err)
	}

	// New logical session: reset the completion gate for this entity.
	e.completedMu.Lock()
	delete(e.completed, entityId)
	e.completedMu.Unlock()

	if err := e.attachTicker(session); err != nil {
		return nil, err
	}
	e.l.Printf("timer started: entity=%s mode=%s duration=%s", entityId, mode, duration)
	return session, nil
}

// attachTicker starts the cooperative reconciliation loop for a running
// session and registers it on the session record.
func (e *Engine) attachTicker(session *timerlib.TimerSession) error {
	t, err := timerlib.NewTicker(e.l, session, &timerlib.TickerOpts{
		Interval: e.tickInterval,
		Handlers: &timerlib.Handlers{
			TickHandler: e.events.OnTick,
			CompleteHandler: func(entityId string) {
				e.NotifyPossibleCompletion(entityId, SourceTick)
			},
			TickerStoppedHandler: func(entityId string) {},
		},
	})
	if err != nil {
		return fmt.Errorf("attach ticker: %w", err)
	}
	session.StopTicker()
	session.AttachTicker(t)
	t.Start()
	return nil
}

// SyncForeground recomputes a session's displayed time immediately, the
// way a foreground transition must. Completion found during the sync
// routes through the coordinator like any tick.
func (e *Engine) SyncForeground(entityId string) error {
	session := e.store.Get(entityId)
	if session == nil {
		return timerlib.ErrSessionNotFound
	}
	if session.CurrentState() != timerlib.StateRunning {
		return nil
	}
	if t := session.ActiveTicker(); t != nil {
		t.Sync()
		return nil
	}
	// No live ticker (e.g. just after rearm classification); fall back to
	// a direct expiry check.
	if session.Expired(time.Now()) {
		e.NotifyPossibleCompletion(entityId, SourceTick)
	}
	return nil
}

// PauseTimer freezes a running session: the wake event is cancelled so
// nothing fires while paused, the tick loop stops, and the elapsed value
// as of this moment is persisted.
func (e *Engine) PauseTimer(entityId string) (*timerlib.TimerSession, error) {
	session := e.store.Get(entityId)
	if session == nil {
		return nil, timerlib.ErrSessionNotFound
	}
	if session.CurrentState() != timerlib.StateRunning {
		return nil, timerlib.ErrSessionNotRunning
	}
	session.StopTicker()
	elapsed, wakeEventId := session.Freeze(time.Now())
	if wakeEventId != "" {
		e.wake.Cancel(wakeEventId)
	}
	if err := e.store.Put(session); err != nil {
		return nil, fmt.Errorf("pause timer: %w", err)
	}
	e.l.Printf("timer paused: entity=%s elapsed=%s", entityId, elapsed)
	return session, nil
}

// ResumeTimer re-anchors a paused session so elapsed continues from the
// frozen value, re-schedules its wake event and restarts the tick loop.
func (e *Engine) ResumeTimer(entityId string) (*timerlib.TimerSession, error) {
	session := e.store.Get(entityId)
	if session == nil {
		return nil, timerlib.ErrSessionNotFound
	}
	if session.CurrentState() != timerlib.StatePaused {
		return nil, timerlib.ErrSessionNotPaused
	}
	now := time.Now()
	frozen := session.Reanchor(now)

	if session.Mode == timerlib.ModeCountdown {
		remaining := session.Remaining(now)
		wakeId, err := e.wake.Schedule(entityId, now.Add(remaining), session.Label)
		if err != nil {
			// Roll back to paused; the permission error is surfaced.
			session.Refreeze(frozen)
			return nil, fmt.Errorf("resume timer: %w", err)
		}
		session.SetWakeEvent(wakeId)
	}
	if err := e.store.Put(session); err != nil {
		return nil, fmt.Errorf("resume timer: %w", err)
	}
	if err := e.attachTicker(session); err != nil {
		return nil, err
	}
	e.l.Printf("timer resumed: entity=%s", entityId)
	return session, nil
}

// CancelTimer resets a session entirely: wake event cancelled, record
// deleted, the alarm silenced if this entity owns it.
func (e *Engine) CancelTimer(entityId string) error {
	session := e.store.Get(entityId)
	if session == nil {
		return timerlib.ErrSessionNotFound
	}
	e.teardown(session, true)
	e.events.OnCancelled(entityId)
	e.l.Printf("timer cancelled: entity=%s", entityId)
	return nil
}

// teardown removes every trace of a session. When stopAlarm is set and the
// entity owns the ringing alarm, the alarm is stopped too (explicit reset);
// replacement via StartTimer leaves an unrelated ring alone.
func (e *Engine) teardown(session *timerlib.TimerSession, stopAlarm bool) {
	session.StopTicker()
	e.wake.CancelEntity(session.EntityId)
	if stopAlarm && e.player.Owner() == session.EntityId {
		e.player.Stop()
	}
	if err := e.store.Delete(session.EntityId); err != nil {
		e.l.Printf("teardown: failed to delete session for %s: %v", session.EntityId, err)
	}
}

// StopAlarm silences the ringing alarm. Safe to call from any entry point
// (CLI, notification surface, RPC) any number of times.
func (e *Engine) StopAlarm() {
	e.player.Stop()
}

// AlarmSummary returns the process-wide playback state.
func (e *Engine) AlarmSummary() *timerlib.AlarmSummary {
	return e.player.Summary()
}

// Session returns the persisted session for the entity, or nil.
func (e *Engine) Session(entityId string) *timerlib.TimerSession {
	return e.store.Get(entityId)
}

// Sessions returns all persisted sessions.
func (e *Engine) Sessions() []*timerlib.TimerSession {
	return e.store.Sessions()
}

// History lists completed sessions, most recent first.
func (e *Engine) History(entityId string, limit int) ([]*timerlib.CompletedSession, error) {
	if e.history == nil {
		return nil, nil
	}
	return e.history.List(entityId, limit)
}

// wakeFired handles the wake scheduler's callback, the second completion
// trigger. It runs on the scheduler goroutine with no live session state
// assumed; everything it needs is in the event payload.
func (e *Engine) wakeFired(ev wake.Event) {
	if strings.HasPrefix(ev.EntityId, reminderPrefix) {
		e.reminderFired(ev)
		return
	}
	e.NotifyPossibleCompletion(ev.EntityId, SourceWake)
}

// SetReminder arms a recurring habit reminder that rings the alarm at each
// occurrence of the cron expression. Re-setting replaces the previous
// reminder for the habit.
func (e *Engine) SetReminder(entityId, cronExpr, label string) (time.Time, error) {
	if label == "" {
		if name, ok := e.labels.DisplayName(entityId); ok {
			label = name
		} else {
			label = entityId
		}
	}
	id, next, err := e.wake.ScheduleCron(reminderPrefix+entityId, cronExpr, label)
	if err != nil {
		return time.Time{}, err
	}
	e.reminders.Set(entityId, reminder{
		EventId:  id,
		CronExpr: cronExpr,
		Label:    label,
		NextRing: next,
	})
	e.l.Printf("reminder set: entity=%s cron=%q next=%s", entityId, cronExpr, next)
	return next, nil
}

// ClearReminder removes the recurring reminder for the habit, if any.
func (e *Engine) ClearReminder(entityId string) {
	e.wake.CancelEntity(reminderPrefix + entityId)
	e.reminders.Delete(entityId)
}

func (e *Engine) reminderFired(ev wake.Event) {
	entityId := strings.TrimPrefix(ev.EntityId, reminderPrefix)
	e.events.OnReminder(entityId, ev.Label)
	if err := e.player.Start(entityId, ev.Label); err != nil {
		e.l.Printf("reminder: alarm busy, skipping ring for %s", entityId)
		return
	}
	e.events.OnAlarmStarted(entityId, ev.Label)
}

// Close stops every live ticker and persists the store.
func (e *Engine) Close() error {
	for _, s := range e.store.Sessions() {
		s.StopTicker()
	}
	e.player.Stop()
	return e.store.Close()
}
