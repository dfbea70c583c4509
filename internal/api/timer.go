package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
)

func (s *Api) startHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.StartTimerParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_TIMER_START, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_TIMER_START, nil, errors.New("entity_id is required")
	}
	session, err := s.engine.StartTimer(
		m.EntityId,
		m.Mode,
		time.Duration(m.DurationSeconds)*time.Second,
		m.Label,
	)
	if err != nil {
		return common.UPDATE_TIMER_START, nil, err
	}
	pool.AddSession(m.EntityId, sconn)
	snap := session.Snapshot(time.Now())
	return common.UPDATE_TIMER_START, &common.StartTimerResponse{
		SessionId:        snap.SessionId,
		EntityId:         snap.EntityId,
		Label:            snap.Label,
		Mode:             snap.Mode,
		StartedAt:        snap.StartedAt,
		DurationSeconds:  snap.PlannedSeconds,
		RemainingSeconds: int64(snap.Remaining / time.Second),
	}, nil
}

func (s *Api) pauseHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputEntityId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_TIMER_PAUSE, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_TIMER_PAUSE, nil, errors.New("entity_id is required")
	}
	session, err := s.engine.PauseTimer(m.EntityId)
	if err != nil {
		return common.UPDATE_TIMER_PAUSE, nil, err
	}
	snap := session.Snapshot(time.Now())
	pool.Broadcast(m.EntityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
		EntityId:       m.EntityId,
		Action:         common.TimerPaused,
		ElapsedSeconds: int64(snap.Elapsed / time.Second),
		Label:          snap.Label,
	}))
	return common.UPDATE_TIMER_PAUSE, buildStatus(session, nil, time.Now()), nil
}

func (s *Api) resumeHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputEntityId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_TIMER_RESUME, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_TIMER_RESUME, nil, errors.New("entity_id is required")
	}
	session, err := s.engine.ResumeTimer(m.EntityId)
	if err != nil {
		return common.UPDATE_TIMER_RESUME, nil, err
	}
	now := time.Now()
	snap := session.Snapshot(now)
	pool.Broadcast(m.EntityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
		EntityId:         m.EntityId,
		Action:           common.TimerResumed,
		ElapsedSeconds:   int64(snap.Elapsed / time.Second),
		RemainingSeconds: int64(snap.Remaining / time.Second),
		Label:            snap.Label,
	}))
	return common.UPDATE_TIMER_RESUME, buildStatus(session, nil, now), nil
}

func (s *Api) cancelHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputEntityId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_TIMER_CANCEL, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_TIMER_CANCEL, nil, errors.New("entity_id is required")
	}
	if err := s.engine.CancelTimer(m.EntityId); err != nil {
		return common.UPDATE_TIMER_CANCEL, nil, err
	}
	pool.Broadcast(m.EntityId, server.MakeResult(common.UPDATE_TIMER_UPDATE, &common.TimerUpdateResponse{
		EntityId: m.EntityId,
		Action:   common.TimerCancelled,
	}))
	pool.RemoveSession(m.EntityId)
	return common.UPDATE_TIMER_CANCEL, nil, nil
}
