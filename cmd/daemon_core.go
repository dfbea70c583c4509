package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/api"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/engine"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/habits"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/logger"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// DaemonOptions carries the flag-derived configuration into component
// initialization so console mode and tests share one entry point.
type DaemonOptions struct {
	Port         int
	AlarmSound   string
	AlarmPlayer  string
	AlarmTimeout time.Duration
	RPCSecret    string
	RPCListenAll bool
	// StopDaemon is invoked by the stop_daemon socket method.
	StopDaemon func()
}

// DaemonComponents holds all initialized daemon components.
// This allows for unified initialization and cleanup across entry points.
type DaemonComponents struct {
	Store     *timerlib.SessionStore
	History   *timerlib.HistoryStore
	Habits    *habits.Store
	Engine    *engine.Engine
	Api       *api.Api
	Server    *server.Server
	logger    logger.Logger
	stdLogger interface{ Println(v ...interface{}) }

	closeOnce sync.Once
}

// Close releases all daemon component resources in reverse order of
// initialization. Safe to call more than once; both the shutdown path and
// the error paths funnel through it.
func (c *DaemonComponents) Close() {
	c.closeOnce.Do(c.close)
}

func (c *DaemonComponents) close() {
	if c.stdLogger != nil {
		c.stdLogger.Println("Shutting down daemon...")
	}

	// Close API (closes engine, which stops tickers, silences the alarm
	// and flushes the session store).
	if c.Api != nil {
		_ = c.Api.Close()
	}
	if c.History != nil {
		_ = c.History.Close()
	}
	if c.Habits != nil {
		_ = c.Habits.Close()
	}

	if c.stdLogger != nil {
		c.stdLogger.Println("Daemon stopped")
	}
}

// initDaemonComponents initializes all daemon components with the provided
// logger. ctx bounds the wake scheduler goroutine; cancelling it after
// Close() is the caller's responsibility.
//
// On error, any partially initialized components are cleaned up before
// returning.
var initDaemonComponents = func(ctx context.Context, log logger.Logger, opts *DaemonOptions) (*DaemonComponents, error) {
	stdLog := logger.ToStdLogger(log)

	store, err := timerlib.OpenSessionStore()
	if err != nil {
		log.Error("Session store initialization failed: %v", err)
		return nil, err
	}

	history, err := timerlib.OpenHistoryStore(timerlib.HistoryDBPath())
	if err != nil {
		log.Error("History store initialization failed: %v", err)
		store.Close()
		return nil, err
	}

	habitsStore, err := habits.Open(timerlib.HabitsDBPath())
	if err != nil {
		log.Error("Habits store initialization failed: %v", err)
		history.Close()
		store.Close()
		return nil, err
	}

	var sounder timerlib.Sounder
	if opts.AlarmSound != "" {
		sounder = timerlib.NewCmdSounder(stdLog, opts.AlarmPlayer, opts.AlarmSound)
	}

	// The engine is constructed before the server, so its event callbacks
	// close over serv and read it lazily. No event fires before a session
	// starts or rearm runs, and both happen after serv is assigned.
	var serv *server.Server

	vibrator := timerlib.VibratorFunc(func(entityId string) {
		serv.Pool().Broadcast(entityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
			EntityId: entityId,
			Action:   common.AlarmPulse,
		}))
	})

	events := &engine.Events{
		OnTick: func(entityId string, elapsed, remaining time.Duration) {
			serv.Pool().Broadcast(entityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
				EntityId:         entityId,
				Action:           common.TimerTick,
				ElapsedSeconds:   int64(elapsed.Seconds()),
				RemainingSeconds: int64(remaining.Seconds()),
			}))
		},
		OnCompleted: func(rec *timerlib.CompletedSession) {
			serv.Pool().Broadcast(rec.EntityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
				EntityId:       rec.EntityId,
				Action:         common.TimerCompleted,
				ElapsedSeconds: rec.ElapsedMs / 1000,
				Label:          rec.Label,
			}))
			serv.Notifier().Broadcast("timer.completed", &server.TimerCompletedNotification{
				EntityId:       rec.EntityId,
				SessionId:      rec.SessionId,
				Label:          rec.Label,
				ElapsedSeconds: rec.ElapsedMs / 1000,
				Source:         rec.Source,
			})
		},
		OnCancelled: func(entityId string) {
			serv.Notifier().Broadcast("timer.cancelled", &server.TimerCancelledNotification{
				EntityId: entityId,
			})
		},
		OnAlarmStarted: func(entityId, label string) {
			serv.Pool().Broadcast(entityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
				EntityId: entityId,
				Action:   common.AlarmStarted,
				Label:    label,
			}))
			serv.Notifier().Broadcast("alarm.started", &server.AlarmStartedNotification{
				EntityId: entityId,
				Label:    label,
			})
		},
		OnAlarmStopped: func(entityId string) {
			serv.Pool().Broadcast(entityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
				EntityId: entityId,
				Action:   common.AlarmStopped,
			}))
			serv.Notifier().Broadcast("alarm.stopped", &server.AlarmStoppedNotification{
				EntityId: entityId,
			})
		},
		OnReminder: func(entityId, label string) {
			serv.Notifier().Broadcast("reminder.fired", &server.ReminderNotification{
				EntityId: entityId,
				Label:    label,
			})
		},
	}

	eng := engine.New(ctx, stdLog, &engine.Config{
		Store:           store,
		History:         history,
		Labels:          habitsStore,
		Sounder:         sounder,
		Vibrator:        vibrator,
		AutoStopTimeout: opts.AlarmTimeout,
		Events:          events,
	})

	s, err := api.NewApi(stdLog, eng, &api.ApiOpts{
		Version:    currentBuildArgs.Version,
		Commit:     currentBuildArgs.Commit,
		BuildType:  currentBuildArgs.BuildType,
		StopDaemon: opts.StopDaemon,
	})
	if err != nil {
		log.Error("API initialization failed: %v", err)
		eng.Close()
		history.Close()
		habitsStore.Close()
		return nil, err
	}

	serv = server.NewServer(stdLog, eng, &server.RPCConfig{
		Secret:    opts.RPCSecret,
		ListenAll: opts.RPCListenAll,
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
	}, opts.Port)
	s.RegisterHandlers(serv)

	// Reconcile sessions that outlived the previous daemon process.
	rearmed, completed, err := eng.RearmAllPersistedSessions()
	if err != nil {
		log.Warning("Startup reconciliation: %v", err)
	}
	if rearmed+completed > 0 {
		stdLog.Println("Rearmed", rearmed, "session(s),", completed, "completed while down")
	}

	return &DaemonComponents{
		Store:     store,
		History:   history,
		Habits:    habitsStore,
		Engine:    eng,
		Api:       s,
		Server:    serv,
		logger:    log,
		stdLogger: stdLog,
	}, nil
}
