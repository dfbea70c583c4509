package cmd

import (
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
)

const (
	DEF_PORT          = common.DefaultTCPPort
	DEF_ALARM_TIMEOUT = time.Second * 30
)

const DESCRIPTION = `
Habit is a timer and alarm engine for habit tracking. It runs
focus countdowns and open-ended stopwatches against the wall
clock, survives restarts without losing a session, and rings
a bounded alarm when a countdown completes.
`

const (
	StartDescription = `The start command begins a countdown or stopwatch for a habit
and stays attached, rendering the live countdown until it
completes or the terminal detaches.

Example:
        habit start reading --for 25m
        habit start running --stopwatch

`
	PauseDescription = `The pause command freezes a running timer. The elapsed value
is kept exactly as of the pause moment and survives daemon
restarts until the timer is resumed or cancelled.

Example:
        habit pause reading

`
	ResumeDescription = `The resume command continues a paused timer from its frozen
elapsed value.

Example:
        habit resume reading

`
	CancelDescription = `The cancel command resets a habit's timer entirely: the
session record, its scheduled wake-up and, if this habit owns
the ringing alarm, the alarm itself.

Example:
        habit cancel reading

`
	StatusDescription = `The status command prints an authoritative snapshot of a
habit's timer, recomputed from the wall clock at request time.

Example:
        habit status reading

`
	ListDescription = `The list command displays every in-progress timer session
with its current elapsed and remaining values.

Example:
        habit list

`
	AttachDescription = `The attach command subscribes to a running timer and renders
its live countdown, including alarm transitions, until the
session ends.

Example:
        habit attach reading

`
	StopAlarmDescription = `The stop-alarm command silences the ringing alarm. Stopping
an already-silent alarm succeeds quietly.

Example:
        habit stop-alarm

`
	HistoryDescription = `The history command lists completed timer sessions, most
recent first, optionally filtered to one habit.

Example:
        habit history
        habit history reading --limit 10

`
	ReminderDescription = `The reminder command manages recurring habit reminders driven
by cron expressions. Set replaces any existing reminder for
the habit; clear removes it.

Example:
        habit reminder set reading "0 9 * * *"
        habit reminder clear reading

`
	RearmDescription = `The rearm command re-runs startup reconciliation: persisted
sessions get fresh wake-ups and countdowns that expired while
the daemon was down complete immediately.

Example:
        habit rearm

`
)
