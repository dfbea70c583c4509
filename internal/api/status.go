package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// statusHandler returns an authoritative snapshot of one entity's session.
// The values are recomputed from the wall clock at request time; clients
// render them as-is instead of resuming a cached countdown.
func (s *Api) statusHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.StatusParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_TIMER_STATUS, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_TIMER_STATUS, nil, errors.New("entity_id is required")
	}
	session := s.engine.Session(m.EntityId)
	if session == nil {
		return common.UPDATE_TIMER_STATUS, nil, timerlib.ErrSessionNotFound
	}
	if err := s.engine.SyncForeground(m.EntityId); err != nil {
		return common.UPDATE_TIMER_STATUS, nil, err
	}
	return common.UPDATE_TIMER_STATUS, buildStatus(session, s.engine.AlarmSummary(), time.Now()), nil
}

func (s *Api) listHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	now := time.Now()
	alarm := s.engine.AlarmSummary()
	sessions := s.engine.Sessions()
	out := make([]*common.StatusResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, buildStatus(session, alarm, now))
	}
	return common.UPDATE_TIMER_LIST, &common.ListResponse{
		Sessions: out,
	}, nil
}
