package habitcli

import (
	"encoding/json"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	if resp == nil {
		return &d, nil
	}
	return &d, json.Unmarshal(resp, &d)
}

type StartTimerOpts struct {
	Mode            timerlib.TimerMode `json:"mode,omitempty"`
	DurationSeconds int64              `json:"duration_seconds,omitempty"`
	Label           string             `json:"label,omitempty"`
}

func (c *Client) StartTimer(entityId string, opts *StartTimerOpts) (*common.StartTimerResponse, error) {
	if opts == nil {
		opts = &StartTimerOpts{}
	}
	return invoke[common.StartTimerResponse](c, common.UPDATE_TIMER_START, &common.StartTimerParams{
		EntityId:        entityId,
		Mode:            opts.Mode,
		DurationSeconds: opts.DurationSeconds,
		Label:           opts.Label,
	})
}

func (c *Client) PauseTimer(entityId string) (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_TIMER_PAUSE, &common.InputEntityId{EntityId: entityId})
}

func (c *Client) ResumeTimer(entityId string) (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_TIMER_RESUME, &common.InputEntityId{EntityId: entityId})
}

func (c *Client) CancelTimer(entityId string) (bool, error) {
	_, err := c.invoke(common.UPDATE_TIMER_CANCEL, &common.InputEntityId{EntityId: entityId})
	return err == nil, err
}

func (c *Client) Status(entityId string) (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_TIMER_STATUS, &common.StatusParams{EntityId: entityId})
}

func (c *Client) List() (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_TIMER_LIST, nil)
}

// Attach subscribes this client's connection to live updates for the
// entity's session. Call Listen afterwards to receive them.
func (c *Client) Attach(entityId string) (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_TIMER_ATTACH, &common.AttachParams{EntityId: entityId})
}

func (c *Client) StopAlarm() (*common.AlarmStateResponse, error) {
	return invoke[common.AlarmStateResponse](c, common.UPDATE_ALARM_STOP, nil)
}

func (c *Client) AlarmState() (*common.AlarmStateResponse, error) {
	return invoke[common.AlarmStateResponse](c, common.UPDATE_ALARM_STATE, nil)
}

type HistoryOpts struct {
	EntityId string `json:"entity_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (c *Client) History(opts *HistoryOpts) (*common.HistoryResponse, error) {
	if opts == nil {
		opts = &HistoryOpts{}
	}
	return invoke[common.HistoryResponse](c, common.UPDATE_HISTORY_LIST, &common.HistoryParams{
		EntityId: opts.EntityId,
		Limit:    opts.Limit,
	})
}

func (c *Client) SetReminder(entityId, cronExpr, label string) (*common.ReminderResponse, error) {
	return invoke[common.ReminderResponse](c, common.UPDATE_REMINDER_SET, &common.ReminderParams{
		EntityId: entityId,
		CronExpr: cronExpr,
		Label:    label,
	})
}

func (c *Client) ClearReminder(entityId string) (bool, error) {
	_, err := c.invoke(common.UPDATE_REMINDER_CLEAR, &common.ReminderParams{EntityId: entityId})
	return err == nil, err
}

func (c *Client) Rearm() (*common.RearmResponse, error) {
	return invoke[common.RearmResponse](c, common.UPDATE_REARM, nil)
}

func (c *Client) StopDaemon() (bool, error) {
	_, err := c.invoke(common.UPDATE_STOP_DAEMON, nil)
	return err == nil, err
}
