package common

type UpdateType string

const (
	UPDATE_TIMER_START    UpdateType = "timer_start"
	UPDATE_TIMER_PAUSE    UpdateType = "timer_pause"
	UPDATE_TIMER_RESUME   UpdateType = "timer_resume"
	UPDATE_TIMER_CANCEL   UpdateType = "timer_cancel"
	UPDATE_TIMER_STATUS   UpdateType = "timer_status"
	UPDATE_TIMER_LIST     UpdateType = "timer_list"
	UPDATE_TIMER_ATTACH   UpdateType = "timer_attach"
	UPDATE_TIMER_UPDATE   UpdateType = "timer_update"
	UPDATE_ALARM_STOP     UpdateType = "alarm_stop"
	UPDATE_ALARM_STATE    UpdateType = "alarm_state"
	UPDATE_HISTORY_LIST   UpdateType = "history_list"
	UPDATE_REMINDER_SET   UpdateType = "reminder_set"
	UPDATE_REMINDER_CLEAR UpdateType = "reminder_clear"
	UPDATE_REARM          UpdateType = "rearm"
	UPDATE_STOP_DAEMON    UpdateType = "stop_daemon"
)

// TimerAction identifies the kind of live update pushed to attached clients.
type TimerAction string

const (
	TimerTick      TimerAction = "timer_tick"
	TimerPaused    TimerAction = "timer_paused"
	TimerResumed   TimerAction = "timer_resumed"
	TimerCompleted TimerAction = "timer_completed"
	TimerCancelled TimerAction = "timer_cancelled"
	AlarmStarted   TimerAction = "alarm_started"
	AlarmStopped   TimerAction = "alarm_stopped"
	AlarmPulse     TimerAction = "alarm_pulse"
)
