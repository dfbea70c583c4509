package timerlib

import "errors"

var (
	ErrPermissionDenied = errors.New("exact wake scheduling is not permitted")
	ErrAssetUnavailable = errors.New("alarm sound asset is unavailable")

	ErrSessionNotFound   = errors.New("no timer session exists for this habit")
	ErrSessionNotRunning = errors.New("timer session is not running")
	ErrSessionNotPaused  = errors.New("timer session is not paused")

	ErrAlarmBusy = errors.New("another alarm is already playing")
)
