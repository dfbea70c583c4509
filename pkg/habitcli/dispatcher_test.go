package habitcli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
)

type recordingHandler struct {
	name string
	sink *[]string
	err  error
}

func (h *recordingHandler) Handle(m json.RawMessage) error {
	*h.sink = append(*h.sink, h.name)
	return h.err
}

func TestDispatcherProcess(t *testing.T) {
	var got *common.TimerUpdateResponse
	d := &Dispatcher{
		Handlers: map[common.UpdateType]Handler{
			common.UPDATE_TIMER_UPDATE: NewTimerUpdateHandler("", func(tu *common.TimerUpdateResponse) error {
				got = tu
				return nil
			}),
		},
	}

	err := d.process([]byte(`{"ok":true,"update":{"type":"timer_update","message":{"entity_id":"habit-1","action":"timer_tick","elapsed_seconds":42}}}`))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got == nil || got.EntityId != "habit-1" || got.ElapsedSeconds != 42 {
		t.Fatalf("update: got %+v", got)
	}

	if err := d.process([]byte(`{"ok":false,"error":"no timer session exists for this habit"}`)); err == nil {
		t.Error("expected error response to surface")
	}
	if err := d.process([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
	// a successful response with no update is a no-op
	if err := d.process([]byte(`{"ok":true}`)); err != nil {
		t.Errorf("empty update: %v", err)
	}
}

func TestTimerUpdateHandlerActionFilter(t *testing.T) {
	calls := 0
	h := NewTimerUpdateHandler(common.TimerCompleted, func(tu *common.TimerUpdateResponse) error {
		calls++
		return nil
	})
	if err := h.Handle(json.RawMessage(`{"entity_id":"h","action":"timer_tick"}`)); err != nil {
		t.Fatalf("handle tick: %v", err)
	}
	if calls != 0 {
		t.Fatal("filtered action must not invoke the callback")
	}
	if err := h.Handle(json.RawMessage(`{"entity_id":"h","action":"timer_completed"}`)); err != nil {
		t.Fatalf("handle completed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
}

func TestMultiHandlerOrderAndErrorStop(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	mh := MultiHandler{
		&recordingHandler{name: "a", sink: &order},
		&recordingHandler{name: "b", sink: &order, err: boom},
		&recordingHandler{name: "c", sink: &order},
	}
	err := mh.Handle(json.RawMessage(`{}`))
	if !errors.Is(err, boom) {
		t.Fatalf("handle: got %v, want boom", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order: got %v, want [a b]", order)
	}
}

func TestAddHandlerStacksPerType(t *testing.T) {
	var order []string
	c := &Client{d: &Dispatcher{}}
	c.AddHandler(common.UPDATE_TIMER_UPDATE, &recordingHandler{name: "first", sink: &order})
	c.AddHandler(common.UPDATE_TIMER_UPDATE, &recordingHandler{name: "second", sink: &order})
	c.AddHandler(common.UPDATE_TIMER_UPDATE, &recordingHandler{name: "third", sink: &order})

	err := c.d.process([]byte(`{"ok":true,"update":{"type":"timer_update","message":{}}}`))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("order: got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order: got %v, want %v", order, want)
		}
	}
}
