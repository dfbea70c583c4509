package common

import "github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"

type InputEntityId struct {
	EntityId string `json:"entity_id"`
}

type StartTimerParams struct {
	EntityId        string             `json:"entity_id"`
	Mode            timerlib.TimerMode `json:"mode"`
	DurationSeconds int64              `json:"duration_seconds,omitempty"`
	Label           string             `json:"label,omitempty"`
}

type StartTimerResponse struct {
	SessionId        string             `json:"session_id"`
	EntityId         string             `json:"entity_id"`
	Label            string             `json:"label"`
	Mode             timerlib.TimerMode `json:"mode"`
	StartedAt        int64              `json:"started_at"`
	DurationSeconds  int64              `json:"duration_seconds,omitempty"`
	RemainingSeconds int64              `json:"remaining_seconds,omitempty"`
}

// TimerUpdateResponse is the live update pushed to attached clients on every
// tick and on every alarm transition.
type TimerUpdateResponse struct {
	EntityId         string      `json:"entity_id"`
	Action           TimerAction `json:"action"`
	ElapsedSeconds   int64       `json:"elapsed_seconds,omitempty"`
	RemainingSeconds int64       `json:"remaining_seconds,omitempty"`
	Label            string      `json:"label,omitempty"`
}

type StatusParams struct {
	EntityId string `json:"entity_id"`
}

// StatusResponse is a fresh recomputation of a session's state. Clients must
// treat this as authoritative rather than resuming a locally cached countdown.
type StatusResponse struct {
	SessionId        string                 `json:"session_id"`
	EntityId         string                 `json:"entity_id"`
	Label            string                 `json:"label"`
	Mode             timerlib.TimerMode     `json:"mode"`
	State            timerlib.SessionState  `json:"state"`
	StartedAt        int64                  `json:"started_at"`
	DurationSeconds  int64                  `json:"duration_seconds,omitempty"`
	ElapsedSeconds   int64                  `json:"elapsed_seconds"`
	RemainingSeconds int64                  `json:"remaining_seconds,omitempty"`
	Alarm            *timerlib.AlarmSummary `json:"alarm,omitempty"`
}

type ListResponse struct {
	Sessions []*StatusResponse `json:"sessions"`
}

type AttachParams struct {
	EntityId string `json:"entity_id"`
}

type AlarmStateResponse struct {
	IsPlaying     bool   `json:"is_playing"`
	OwnerEntityId string `json:"owner_entity_id,omitempty"`
	StartedAt     int64  `json:"started_at,omitempty"`
}

type HistoryParams struct {
	EntityId string `json:"entity_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Records []*timerlib.CompletedSession `json:"records"`
}

type ReminderParams struct {
	EntityId string `json:"entity_id"`
	CronExpr string `json:"cron_expr,omitempty"`
	Label    string `json:"label,omitempty"`
}

type ReminderResponse struct {
	EntityId string `json:"entity_id"`
	NextRing int64  `json:"next_ring,omitempty"`
}

type RearmResponse struct {
	Rearmed   int `json:"rearmed"`
	Completed int `json:"completed"`
}
