package engine

import (
	"fmt"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/wake"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// RearmAllPersistedSessions reconciles every persisted session against the
// wall clock after a daemon restart. The wake scheduler's queue died with
// the old process; the session file did not. Countdowns that expired while
// the daemon was down complete immediately through the coordinator,
// surviving ones get fresh wake events and tickers, paused sessions stay
// frozen exactly as they were.
//
// It returns how many sessions were rearmed and how many completed.
func (e *Engine) RearmAllPersistedSessions() (rearmed, completed int, err error) {
	now := time.Now()
	expired, live := wake.Classify(e.store.Sessions(), now)

	for _, s := range expired {
		e.NotifyPossibleCompletion(s.EntityId, SourceRearm)
		completed++
	}
	for _, s := range live {
		if s.CurrentState() == timerlib.StatePaused {
			// Paused sessions carry no wake event and no ticker; they
			// resume on explicit user action only.
			rearmed++
			continue
		}
		if s.Mode == timerlib.ModeCountdown {
			deadline, ok := s.Deadline()
			if !ok {
				continue
			}
			wakeId, schedErr := e.wake.Schedule(s.EntityId, deadline, s.Label)
			if schedErr != nil {
				return rearmed, completed, fmt.Errorf("rearm %s: %w", s.EntityId, schedErr)
			}
			s.SetWakeEvent(wakeId)
			if putErr := e.store.Put(s); putErr != nil {
				return rearmed, completed, fmt.Errorf("rearm %s: %w", s.EntityId, putErr)
			}
		}
		if tickErr := e.attachTicker(s); tickErr != nil {
			return rearmed, completed, tickErr
		}
		rearmed++
	}
	e.l.Printf("rearm: %d rearmed, %d completed on startup", rearmed, completed)
	return rearmed, completed, nil
}
