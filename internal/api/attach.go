package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

// attachHandler subscribes the calling connection to live updates for an
// entity's session: ticks, pause/resume transitions, completion and alarm
// state. The response carries a fresh snapshot so the client can render
// immediately before the first pushed tick arrives.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.AttachParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_TIMER_ATTACH, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_TIMER_ATTACH, nil, errors.New("entity_id is required")
	}
	session := s.engine.Session(m.EntityId)
	if session == nil {
		return common.UPDATE_TIMER_ATTACH, nil, timerlib.ErrSessionNotFound
	}
	pool.AddConnections(m.EntityId, []*server.SyncConn{sconn})
	return common.UPDATE_TIMER_ATTACH, buildStatus(session, s.engine.AlarmSummary(), time.Now()), nil
}
