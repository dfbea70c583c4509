// Package api implements the daemon's socket method handlers, translating
// framed JSON requests from clients into engine operations.
package api

import (
	"log"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/engine"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

type Api struct {
	log    *log.Logger
	engine *engine.Engine

	version   string
	commit    string
	buildType string

	// stopDaemon requests a graceful daemon shutdown.
	stopDaemon func()
}

type ApiOpts struct {
	Version   string
	Commit    string
	BuildType string
	// StopDaemon is invoked by the stop_daemon method; nil disables it.
	StopDaemon func()
}

func NewApi(l *log.Logger, e *engine.Engine, opts *ApiOpts) (*Api, error) {
	if opts == nil {
		opts = &ApiOpts{}
	}
	return &Api{
		log:        l,
		engine:     e,
		version:    opts.Version,
		commit:     opts.Commit,
		buildType:  opts.BuildType,
		stopDaemon: opts.StopDaemon,
	}, nil
}

func (s *Api) RegisterHandlers(server *server.Server) {
	// timer API methods
	server.RegisterHandler(common.UPDATE_TIMER_START, s.startHandler)
	server.RegisterHandler(common.UPDATE_TIMER_PAUSE, s.pauseHandler)
	server.RegisterHandler(common.UPDATE_TIMER_RESUME, s.resumeHandler)
	server.RegisterHandler(common.UPDATE_TIMER_CANCEL, s.cancelHandler)
	server.RegisterHandler(common.UPDATE_TIMER_STATUS, s.statusHandler)
	server.RegisterHandler(common.UPDATE_TIMER_LIST, s.listHandler)
	server.RegisterHandler(common.UPDATE_TIMER_ATTACH, s.attachHandler)

	// alarm API methods
	server.RegisterHandler(common.UPDATE_ALARM_STOP, s.alarmStopHandler)
	server.RegisterHandler(common.UPDATE_ALARM_STATE, s.alarmStateHandler)

	// history and reminder API methods
	server.RegisterHandler(common.UPDATE_HISTORY_LIST, s.historyHandler)
	server.RegisterHandler(common.UPDATE_REMINDER_SET, s.reminderSetHandler)
	server.RegisterHandler(common.UPDATE_REMINDER_CLEAR, s.reminderClearHandler)

	// daemon API methods
	server.RegisterHandler(common.UPDATE_REARM, s.rearmHandler)
	server.RegisterHandler(common.UPDATE_STOP_DAEMON, s.stopDaemonHandler)
}

func (s *Api) Close() error {
	return s.engine.Close()
}

// buildStatus assembles a fresh, wall-clock-authoritative status snapshot
// for one session. The snapshot is taken under the session lock so a
// concurrent pause or resume cannot tear the reported values.
func buildStatus(session *timerlib.TimerSession, alarm *timerlib.AlarmSummary, now time.Time) *common.StatusResponse {
	snap := session.Snapshot(now)
	resp := &common.StatusResponse{
		SessionId:        snap.SessionId,
		EntityId:         snap.EntityId,
		Label:            snap.Label,
		Mode:             snap.Mode,
		State:            snap.State,
		StartedAt:        snap.StartedAt,
		DurationSeconds:  snap.PlannedSeconds,
		ElapsedSeconds:   int64(snap.Elapsed / time.Second),
		RemainingSeconds: int64(snap.Remaining / time.Second),
	}
	if alarm != nil && alarm.IsPlaying && alarm.OwnerEntityId == snap.EntityId {
		resp.Alarm = alarm
	}
	return resp
}
