package engine

import (
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// CompletionSource identifies which trigger observed a countdown finish.
type CompletionSource string

const (
	// SourceTick is the cooperative reconciliation loop.
	SourceTick CompletionSource = "tick"
	// SourceWake is the wake scheduler's fired callback.
	SourceWake CompletionSource = "wake"
	// SourceRearm is startup classification of persisted sessions.
	SourceRearm CompletionSource = "rearm"
)

// NotifyPossibleCompletion is the single convergence point for every
// completion trigger. Multiple triggers may report the same session, near
// simultaneously and from different goroutines; exactly one caller wins
// the gate and runs the side effects, the rest return having done nothing.
//
// The gate is keyed by the session id that completed, so a new session for
// the same entity is never blocked by its predecessor's completion.
func (e *Engine) NotifyPossibleCompletion(entityId string, source CompletionSource) {
	session := e.store.Get(entityId)
	if session == nil {
		// Already completed (and deleted) by an earlier trigger, or
		// cancelled meanwhile. Either way there is nothing to do.
		return
	}
	if session.Mode != timerlib.ModeCountdown {
		return
	}
	now := time.Now()
	if !session.Expired(now) {
		// A stale wake event for a session that was since paused or
		// extended must not complete it.
		return
	}

	e.completedMu.Lock()
	if e.completed[entityId] == session.SessionId {
		e.completedMu.Unlock()
		return
	}
	e.completed[entityId] = session.SessionId
	e.completedMu.Unlock()

	e.l.Printf("timer completed: entity=%s session=%s source=%s", entityId, session.SessionId, source)

	session.StopTicker()
	e.wake.CancelEntity(entityId)

	snap := session.Snapshot(now)
	rec := &timerlib.CompletedSession{
		SessionId:      snap.SessionId,
		EntityId:       entityId,
		Label:          snap.Label,
		Mode:           snap.Mode,
		PlannedSeconds: snap.PlannedSeconds,
		ElapsedMs:      snap.Elapsed.Milliseconds(),
		StartedAt:      snap.StartedAt,
		CompletedAt:    now.UnixMilli(),
		Source:         string(source),
	}
	if e.history != nil {
		if err := e.history.RecordCompletion(rec); err != nil {
			e.l.Printf("completion: failed to record history for %s: %v", entityId, err)
		}
	}

	if err := e.player.Start(entityId, session.Label); err != nil {
		e.l.Printf("completion: alarm not started for %s: %v", entityId, err)
	} else {
		e.events.OnAlarmStarted(entityId, session.Label)
	}

	if err := e.store.Delete(entityId); err != nil {
		e.l.Printf("completion: failed to delete session for %s: %v", entityId, err)
	}
	e.events.OnCompleted(rec)
}
