package api

import (
	"encoding/json"
	"errors"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
)

func (s *Api) reminderSetHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ReminderParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_REMINDER_SET, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_REMINDER_SET, nil, errors.New("entity_id is required")
	}
	if m.CronExpr == "" {
		return common.UPDATE_REMINDER_SET, nil, errors.New("cron_expr is required")
	}
	next, err := s.engine.SetReminder(m.EntityId, m.CronExpr, m.Label)
	if err != nil {
		return common.UPDATE_REMINDER_SET, nil, err
	}
	return common.UPDATE_REMINDER_SET, &common.ReminderResponse{
		EntityId: m.EntityId,
		NextRing: next.UnixMilli(),
	}, nil
}

func (s *Api) reminderClearHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ReminderParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_REMINDER_CLEAR, nil, err
	}
	if m.EntityId == "" {
		return common.UPDATE_REMINDER_CLEAR, nil, errors.New("entity_id is required")
	}
	s.engine.ClearReminder(m.EntityId)
	return common.UPDATE_REMINDER_CLEAR, &common.ReminderResponse{
		EntityId: m.EntityId,
	}, nil
}
