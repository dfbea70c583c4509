package api

import (
	"encoding/json"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
)

// rearmHandler re-runs startup reconciliation on demand: persisted sessions
// get fresh wake events, countdowns that expired meanwhile complete.
func (s *Api) rearmHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	rearmed, completed, err := s.engine.RearmAllPersistedSessions()
	if err != nil {
		return common.UPDATE_REARM, nil, err
	}
	return common.UPDATE_REARM, &common.RearmResponse{
		Rearmed:   rearmed,
		Completed: completed,
	}, nil
}

func (s *Api) stopDaemonHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	if s.stopDaemon == nil {
		return common.UPDATE_STOP_DAEMON, nil, nil
	}
	// Shut down after the response has a chance to flush.
	defer s.stopDaemon()
	return common.UPDATE_STOP_DAEMON, nil, nil
}
