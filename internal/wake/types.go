package wake

import "time"

// Status tracks the lifecycle of a wake event.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusFired     Status = "fired"
	StatusCancelled Status = "cancelled"
)

// Event represents a pending wake-up in the scheduler heap. It is an
// in-memory only type; the heap is rebuilt from session records on daemon
// restart.
type Event struct {
	// Id uniquely identifies this scheduling; cancelling by id is a no-op
	// if the entity has since been re-scheduled under a new id.
	Id string
	// EntityId is the tracked habit this wake-up belongs to.
	EntityId string
	// Label is the display name to ring with; carried in the payload so
	// the trigger can reconstruct context without live state.
	Label string
	// TriggerAt is the wall-clock time the event fires.
	TriggerAt time.Time
	// CronExpr is set for recurring reminder events.
	// Empty string means one-shot, no re-scheduling after firing.
	CronExpr string
	// Status is the current lifecycle state.
	Status Status
}

// TriggerFunc is invoked when a scheduled event fires. The event carries
// its full payload; implementations must not assume any session is still
// in memory.
type TriggerFunc func(ev Event)

// Capability reports whether the host grants exact wake-up scheduling.
// When denied, scheduling fails loudly with ErrPermissionDenied rather
// than silently degrading to approximate timing.
type Capability interface {
	ExactWakeAllowed() bool
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func() bool

// ExactWakeAllowed calls f.
func (f CapabilityFunc) ExactWakeAllowed() bool { return f() }

// AlwaysAllowed is the default capability on hosts without a wake
// permission model.
var AlwaysAllowed Capability = CapabilityFunc(func() bool { return true })
