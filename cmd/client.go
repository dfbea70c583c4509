package cmd

import (
	"fmt"
	"time"

	cmdCommon "github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
	"github.com/vbauerster/mpb/v8"
)

func timerTick(bar *mpb.Bar) func(tu *common.TimerUpdateResponse) error {
	return func(tu *common.TimerUpdateResponse) error {
		if bar != nil {
			// The daemon's elapsed value is authoritative; never count
			// ticks locally.
			bar.SetCurrent(tu.ElapsedSeconds)
			return nil
		}
		fmt.Printf("\r%s ", timerlib.FormatClock(time.Duration(tu.ElapsedSeconds)*time.Second))
		return nil
	}
}

func timerPaused(tu *common.TimerUpdateResponse) error {
	fmt.Println("\nTimer paused")
	return nil
}

func timerResumed(tu *common.TimerUpdateResponse) error {
	fmt.Println("\nTimer resumed")
	return nil
}

func timerCompleted(bar *mpb.Bar) func(tu *common.TimerUpdateResponse) error {
	return func(tu *common.TimerUpdateResponse) error {
		if bar != nil && !bar.Completed() {
			bar.SetCurrent(tu.ElapsedSeconds)
		}
		fmt.Printf("\nCompleted %s (%s)\n", tu.EntityId,
			timerlib.FormatClock(time.Duration(tu.ElapsedSeconds)*time.Second))
		return habitcli.ErrDisconnect
	}
}

func timerCancelled(bar *mpb.Bar) func(tu *common.TimerUpdateResponse) error {
	return func(tu *common.TimerUpdateResponse) error {
		if bar != nil {
			bar.Abort(false)
		}
		fmt.Println("\nTimer cancelled")
		return habitcli.ErrDisconnect
	}
}

func alarmStarted(tu *common.TimerUpdateResponse) error {
	fmt.Println("\nAlarm ringing! Silence it with: habit stop-alarm")
	return nil
}

// registerTimerHandlers wires live update handlers and, for countdowns, a
// progress bar. totalSeconds == 0 renders a plain elapsed clock instead.
func registerTimerHandlers(client *habitcli.Client, label string, totalSeconds int64) {
	var bar *mpb.Bar
	if totalSeconds > 0 {
		p := mpb.New(mpb.WithWidth(64), mpb.WithRefreshRate(time.Millisecond*120))
		bar = cmdCommon.InitTimerBar(p, label, totalSeconds)
	}
	client.AddHandler(
		common.UPDATE_TIMER_UPDATE,
		habitcli.NewTimerUpdateHandler(common.TimerTick, timerTick(bar)),
	)
	client.AddHandler(
		common.UPDATE_TIMER_UPDATE,
		habitcli.NewTimerUpdateHandler(common.TimerPaused, timerPaused),
	)
	client.AddHandler(
		common.UPDATE_TIMER_UPDATE,
		habitcli.NewTimerUpdateHandler(common.TimerResumed, timerResumed),
	)
	client.AddHandler(
		common.UPDATE_TIMER_UPDATE,
		habitcli.NewTimerUpdateHandler(common.AlarmStarted, alarmStarted),
	)
	client.AddHandler(
		common.UPDATE_TIMER_UPDATE,
		habitcli.NewTimerUpdateHandler(common.TimerCompleted, timerCompleted(bar)),
	)
	client.AddHandler(
		common.UPDATE_TIMER_UPDATE,
		habitcli.NewTimerUpdateHandler(common.TimerCancelled, timerCancelled(bar)),
	)
}
