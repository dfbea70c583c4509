package wake

import (
	"container/heap"
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

const maxSleepCap = 60 * time.Second

// removeReq identifies events to cancel: by exact event id, or every live
// event of an entity when Id is empty.
type removeReq struct {
	Id       string
	EntityId string
}

// Scheduler manages pending wake events using a min-heap. It runs a
// background goroutine that sleeps until the next event's trigger time,
// then calls the onTrigger callback with the event payload. The callback
// fires independently of any client connection, which is what lets an
// alarm ring with no UI attached.
type Scheduler struct {
	addChan    chan Event
	removeChan chan removeReq
	ctx        context.Context
	capability Capability
}

// New creates and starts a new Scheduler. The onTrigger callback is
// invoked when a scheduled event fires. The scheduler goroutine exits when
// ctx is cancelled. A nil capability defaults to AlwaysAllowed.
func New(ctx context.Context, capability Capability, onTrigger TriggerFunc) *Scheduler {
	if capability == nil {
		capability = AlwaysAllowed
	}
	s := &Scheduler{
		addChan:    make(chan Event, 64),
		removeChan: make(chan removeReq, 64),
		ctx:        ctx,
		capability: capability,
	}
	go s.run(onTrigger)
	return s
}

// Schedule arms a one-shot wake event for entityId at triggerAt. Any live
// event for the same entity is replaced. Returns ErrPermissionDenied when
// the host refuses exact wake scheduling. Callers must surface this, not
// fall back to approximate timing.
func (s *Scheduler) Schedule(entityId string, triggerAt time.Time, label string) (string, error) {
	return s.schedule(Event{
		Id:        newEventId(),
		EntityId:  entityId,
		Label:     label,
		TriggerAt: triggerAt,
		Status:    StatusScheduled,
	})
}

// ScheduleCron arms a recurring wake event firing at each occurrence of
// the cron expression. Used for habit reminders.
func (s *Scheduler) ScheduleCron(entityId, cronExpr, label string) (string, time.Time, error) {
	next, err := nextCronOccurrence(cronExpr, time.Now())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	id, err := s.schedule(Event{
		Id:        newEventId(),
		EntityId:  entityId,
		Label:     label,
		TriggerAt: next,
		CronExpr:  cronExpr,
		Status:    StatusScheduled,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return id, next, nil
}

func (s *Scheduler) schedule(ev Event) (string, error) {
	if !s.capability.ExactWakeAllowed() {
		return "", timerlib.ErrPermissionDenied
	}
	select {
	case s.addChan <- ev:
		return ev.Id, nil
	case <-s.ctx.Done():
		return "", s.ctx.Err()
	}
}

// Cancel removes a scheduled event by id. Cancelling an id that already
// fired or was replaced is a no-op.
func (s *Scheduler) Cancel(eventId string) {
	if eventId == "" {
		return
	}
	select {
	case s.removeChan <- removeReq{Id: eventId}:
	case <-s.ctx.Done():
	}
}

// CancelEntity removes every live event for the given entity.
func (s *Scheduler) CancelEntity(entityId string) {
	select {
	case s.removeChan <- removeReq{EntityId: entityId}:
	case <-s.ctx.Done():
	}
}

// run is the core scheduler goroutine. It maintains a min-heap of events
// and sleeps with a 60s max-sleep-cap. Adding an event for an entity that
// already has one replaces the previous entry. For recurring events
// (CronExpr != ""), after firing it computes the next occurrence and
// re-adds it automatically.
func (s *Scheduler) run(onTrigger TriggerFunc) {
	h := &eventHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			// no pending events, block on channels
			return nil
		}
		next := (*h)[0].TriggerAt
		dur := time.Until(next)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case ev := <-s.addChan:
			// One live event per entity: replace any existing entry.
			heapRemoveByEntity(h, ev.EntityId)
			heapPush(h, ev)
			timerCh = resetTimer()

		case req := <-s.removeChan:
			if req.Id != "" {
				heapRemoveById(h, req.Id)
			} else {
				heapRemoveByEntity(h, req.EntityId)
			}
			timerCh = resetTimer()

		case <-timerCh:
			// Fire all events whose time has arrived
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				ev := heapPop(h)
				ev.Status = StatusFired
				onTrigger(ev)
				if ev.CronExpr != "" {
					next, err := nextCronOccurrence(ev.CronExpr, time.Now())
					if err == nil {
						heapPush(h, Event{
							Id:        newEventId(),
							EntityId:  ev.EntityId,
							Label:     ev.Label,
							TriggerAt: next,
							CronExpr:  ev.CronExpr,
							Status:    StatusScheduled,
						})
					}
				}
			}
			timerCh = resetTimer()
		}
	}
}

// nextCronOccurrence returns the next time the cron expression fires
// strictly after start.
func nextCronOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}

func newEventId() string {
	return timerlib.NewSessionId()
}
