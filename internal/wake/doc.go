// Package wake provides the durable wake-up facility for habitd timers.
// It implements a single-goroutine scheduler using a min-heap of WakeEvents
// sorted by trigger time, with a 60-second max-sleep-cap to handle NTP
// steps, DST transitions, and system sleep.
//
// Scheduling is idempotent per entity: arming a new event for an entity
// that already has a live one implicitly cancels the previous entry, so no
// two live wake events ever exist for the same entity. The fired callback
// carries the full payload (entity id, label) so the receiver can act
// without reading live in-memory state.
//
// The heap itself is process-memory only. On daemon start, Classify splits
// persisted timer sessions into those that expired while the daemon was
// down and those still live; the engine routes the former to completion
// and re-schedules the latter here.
package wake
