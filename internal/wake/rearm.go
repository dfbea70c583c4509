package wake

import (
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// Classify splits persisted timer sessions at daemon startup into those
// whose countdown expired while the daemon was down (to be routed through
// the completion coordinator immediately) and those still live (to have a
// wake event re-armed and a ticker re-attached).
//
// Paused sessions carry no wake event and keep their frozen elapsed value;
// running stopwatches never expire. Both are returned in live so the
// engine can re-attach them.
func Classify(sessions []*timerlib.TimerSession, now time.Time) (expired, live []*timerlib.TimerSession) {
	for _, s := range sessions {
		switch s.CurrentState() {
		case timerlib.StateRunning:
			if s.Mode == timerlib.ModeCountdown && s.Expired(now) {
				expired = append(expired, s)
				continue
			}
			live = append(live, s)
		case timerlib.StatePaused:
			live = append(live, s)
		default:
			// Completed/cancelled records should have been deleted;
			// skip rather than resurrect them.
		}
	}
	return expired, live
}
