package server

import (
	"context"
	"errors"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/engine"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// Custom JSON-RPC error codes for timer operations.
const (
	codeSessionNotFound  = jrpc2.Code(-32001)
	codeSessionBadState  = jrpc2.Code(-32002)
	codePermissionDenied = jrpc2.Code(-32003)
	codeInvalidParams    = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Version   string // Daemon version
	Commit    string // Git commit
	BuildType string // Build type
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	version   string
	commit    string
	buildType string
	engine    *engine.Engine
	pool      *Pool
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// TimerStartParams is the input for timer.start.
type TimerStartParams struct {
	EntityId        string `json:"entityId"`
	Mode            string `json:"mode,omitempty"`
	DurationSeconds int64  `json:"durationSeconds,omitempty"`
	Label           string `json:"label,omitempty"`
}

// TimerStartResult is the response for timer.start.
type TimerStartResult struct {
	SessionId   string `json:"sessionId"`
	WakeEventId string `json:"wakeEventId,omitempty"`
}

// EntityParam is a common input with just an entity id.
type EntityParam struct {
	EntityId string `json:"entityId"`
}

// TimerStatusResult is the response for timer.status and a single entry in
// the timer.list response.
type TimerStatusResult struct {
	EntityId         string `json:"entityId"`
	SessionId        string `json:"sessionId"`
	Label            string `json:"label"`
	Mode             string `json:"mode"`
	State            string `json:"state"`
	ElapsedSeconds   int64  `json:"elapsedSeconds"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

// TimerListResult is the response for timer.list.
type TimerListResult struct {
	Sessions []*TimerStatusResult `json:"sessions"`
}

// AlarmStatusResult is the response for alarm.status.
type AlarmStatusResult struct {
	IsPlaying        bool   `json:"isPlaying"`
	OwnerEntityId    string `json:"ownerEntityId,omitempty"`
	AutoStopDeadline int64  `json:"autoStopDeadline,omitempty"`
}

// HistoryParams is the input for history.list.
type HistoryParams struct {
	EntityId string `json:"entityId,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// HistoryItem is a single entry in the history.list response.
type HistoryItem struct {
	SessionId      string `json:"sessionId"`
	EntityId       string `json:"entityId"`
	Label          string `json:"label"`
	Mode           string `json:"mode"`
	PlannedSeconds int64  `json:"plannedSeconds"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	CompletedAt    int64  `json:"completedAt"`
	Source         string `json:"source"`
}

// HistoryResult is the response for history.list.
type HistoryResult struct {
	Completions []*HistoryItem `json:"completions"`
}

// ReminderSetParams is the input for reminder.set.
type ReminderSetParams struct {
	EntityId string `json:"entityId"`
	Cron     string `json:"cron"`
	Label    string `json:"label,omitempty"`
}

// ReminderSetResult is the response for reminder.set.
type ReminderSetResult struct {
	NextRing int64 `json:"nextRing"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, e *engine.Engine, pool *Pool) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		engine:    e,
		pool:      pool,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"timer.start":       handler.New(rs.timerStart),
		"timer.pause":       handler.New(rs.timerPause),
		"timer.resume":      handler.New(rs.timerResume),
		"timer.cancel":      handler.New(rs.timerCancel),
		"timer.status":      handler.New(rs.timerStatus),
		"timer.list":        handler.New(rs.timerList),
		"alarm.stop":        handler.New(rs.alarmStop),
		"alarm.status":      handler.New(rs.alarmStatus),
		"history.list":      handler.New(rs.historyList),
		"reminder.set":      handler.New(rs.reminderSet),
		"reminder.clear":    handler.New(rs.reminderClear),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// rpcError maps engine errors onto the JSON-RPC error codes.
func rpcError(err error) error {
	switch {
	case errors.Is(err, timerlib.ErrSessionNotFound):
		return &jrpc2.Error{Code: codeSessionNotFound, Message: "no timer session for entity"}
	case errors.Is(err, timerlib.ErrSessionNotRunning),
		errors.Is(err, timerlib.ErrSessionNotPaused):
		return &jrpc2.Error{Code: codeSessionBadState, Message: err.Error()}
	case errors.Is(err, timerlib.ErrPermissionDenied):
		return &jrpc2.Error{Code: codePermissionDenied, Message: "exact wake scheduling denied by host"}
	default:
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) timerStart(_ context.Context, p *TimerStartParams) (*TimerStartResult, error) {
	if p.EntityId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: entityId"}
	}
	session, err := rs.engine.StartTimer(
		p.EntityId,
		timerlib.TimerMode(p.Mode),
		time.Duration(p.DurationSeconds)*time.Second,
		p.Label,
	)
	if err != nil {
		return nil, rpcError(err)
	}
	if rs.pool != nil {
		rs.pool.AddSession(p.EntityId, nil)
	}
	snap := session.Snapshot(time.Now())
	return &TimerStartResult{
		SessionId:   snap.SessionId,
		WakeEventId: snap.WakeEventId,
	}, nil
}

func (rs *RPCServer) timerPause(_ context.Context, p *EntityParam) (*EmptyResult, error) {
	if _, err := rs.engine.PauseTimer(p.EntityId); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) timerResume(_ context.Context, p *EntityParam) (*EmptyResult, error) {
	if _, err := rs.engine.ResumeTimer(p.EntityId); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) timerCancel(_ context.Context, p *EntityParam) (*EmptyResult, error) {
	if err := rs.engine.CancelTimer(p.EntityId); err != nil {
		return nil, rpcError(err)
	}
	if rs.pool != nil {
		rs.pool.RemoveSession(p.EntityId)
	}
	return &EmptyResult{}, nil
}

func sessionStatus(s *timerlib.TimerSession, now time.Time) *TimerStatusResult {
	snap := s.Snapshot(now)
	return &TimerStatusResult{
		EntityId:         snap.EntityId,
		SessionId:        snap.SessionId,
		Label:            snap.Label,
		Mode:             string(snap.Mode),
		State:            string(snap.State),
		ElapsedSeconds:   int64(snap.Elapsed / time.Second),
		RemainingSeconds: int64(snap.Remaining / time.Second),
	}
}

func (rs *RPCServer) timerStatus(_ context.Context, p *EntityParam) (*TimerStatusResult, error) {
	session := rs.engine.Session(p.EntityId)
	if session == nil {
		return nil, &jrpc2.Error{Code: codeSessionNotFound, Message: "no timer session for entity"}
	}
	return sessionStatus(session, time.Now()), nil
}

func (rs *RPCServer) timerList(_ context.Context) (*TimerListResult, error) {
	now := time.Now()
	sessions := rs.engine.Sessions()
	out := make([]*TimerStatusResult, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionStatus(s, now))
	}
	return &TimerListResult{Sessions: out}, nil
}

func (rs *RPCServer) alarmStop(_ context.Context) (*EmptyResult, error) {
	rs.engine.StopAlarm()
	return &EmptyResult{}, nil
}

func (rs *RPCServer) alarmStatus(_ context.Context) (*AlarmStatusResult, error) {
	sum := rs.engine.AlarmSummary()
	return &AlarmStatusResult{
		IsPlaying:        sum.IsPlaying,
		OwnerEntityId:    sum.OwnerEntityId,
		AutoStopDeadline: sum.AutoStopDeadline,
	}, nil
}

func (rs *RPCServer) historyList(_ context.Context, p *HistoryParams) (*HistoryResult, error) {
	recs, err := rs.engine.History(p.EntityId, p.Limit)
	if err != nil {
		return nil, rpcError(err)
	}
	completions := make([]*HistoryItem, 0, len(recs))
	for _, r := range recs {
		completions = append(completions, &HistoryItem{
			SessionId:      r.SessionId,
			EntityId:       r.EntityId,
			Label:          r.Label,
			Mode:           string(r.Mode),
			PlannedSeconds: r.PlannedSeconds,
			ElapsedSeconds: r.ElapsedMs / 1000,
			CompletedAt:    r.CompletedAt,
			Source:         r.Source,
		})
	}
	return &HistoryResult{Completions: completions}, nil
}

func (rs *RPCServer) reminderSet(_ context.Context, p *ReminderSetParams) (*ReminderSetResult, error) {
	if p.EntityId == "" || p.Cron == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required params: entityId, cron"}
	}
	next, err := rs.engine.SetReminder(p.EntityId, p.Cron, p.Label)
	if err != nil {
		return nil, rpcError(err)
	}
	return &ReminderSetResult{NextRing: next.UnixMilli()}, nil
}

func (rs *RPCServer) reminderClear(_ context.Context, p *EntityParam) (*EmptyResult, error) {
	rs.engine.ClearReminder(p.EntityId)
	return &EmptyResult{}, nil
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
