package habitcli

import (
	"encoding/json"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
)

// Handler defines the interface for processing daemon updates.
// Implementations receive raw JSON messages and are responsible for
// unmarshaling and processing them appropriately.
type Handler interface {
	Handle(json.RawMessage) error
}

// MultiHandler fans one update out to several handlers in order. The first
// handler error stops the fan-out and is returned to the dispatcher.
type MultiHandler []Handler

// Handle implements Handler.
func (mh MultiHandler) Handle(m json.RawMessage) error {
	for _, h := range mh {
		if err := h.Handle(m); err != nil {
			return err
		}
	}
	return nil
}

// NewTimerUpdateHandler creates a handler for live timer updates. The
// action parameter filters updates to only those matching the given timer
// action; pass an empty string to receive all actions. The callback is
// invoked for each matching update.
func NewTimerUpdateHandler(action common.TimerAction, callback func(*common.TimerUpdateResponse) error) *TimerUpdateHandler {
	return &TimerUpdateHandler{
		Action:   action,
		Callback: callback,
	}
}

// TimerUpdateHandler processes live timer updates pushed by the daemon.
// It filters updates by action and invokes a callback for matching ones.
type TimerUpdateHandler struct {
	Action   common.TimerAction
	Callback func(*common.TimerUpdateResponse) error
}

// Handle processes a raw JSON timer update message.
func (h *TimerUpdateHandler) Handle(m json.RawMessage) error {
	var v common.TimerUpdateResponse
	err := json.Unmarshal(m, &v)
	if err != nil {
		return err
	}
	if h.Action != "" && v.Action != h.Action {
		return nil
	}
	return h.Callback(&v)
}
