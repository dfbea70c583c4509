package api

import (
	"encoding/json"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
)

// alarmStopHandler silences the ringing alarm. Stopping an already-silent
// alarm succeeds; every entry point may race to stop and none may fail.
func (s *Api) alarmStopHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	s.engine.StopAlarm()
	return common.UPDATE_ALARM_STOP, alarmState(s), nil
}

func (s *Api) alarmStateHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_ALARM_STATE, alarmState(s), nil
}

func alarmState(s *Api) *common.AlarmStateResponse {
	sum := s.engine.AlarmSummary()
	return &common.AlarmStateResponse{
		IsPlaying:     sum.IsPlaying,
		OwnerEntityId: sum.OwnerEntityId,
		StartedAt:     sum.StartedAt,
	}
}
