package api

import (
	"encoding/json"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/server"
)

func (s *Api) historyHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.HistoryParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_HISTORY_LIST, nil, err
	}
	records, err := s.engine.History(m.EntityId, m.Limit)
	if err != nil {
		return common.UPDATE_HISTORY_LIST, nil, err
	}
	return common.UPDATE_HISTORY_LIST, &common.HistoryResponse{
		Records: records,
	}, nil
}
