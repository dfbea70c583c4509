package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
	"github.com/urfave/cli"
)

var startFlags = []cli.Flag{
	cli.DurationFlag{
		Name:        "for, f",
		Usage:       "countdown duration (e.g. 25m, 1h30m)",
		Destination: &startDuration,
	},
	cli.BoolFlag{
		Name:        "stopwatch, w",
		Usage:       "count up instead of down",
		Destination: &startStopwatch,
	},
	cli.StringFlag{
		Name:        "label, l",
		Usage:       "display label for the session",
		Destination: &startLabel,
	},
	cli.BoolFlag{
		Name:        "detach, D",
		Usage:       "start the timer without following its progress",
		Destination: &startDetach,
	},
}

var (
	startDuration  time.Duration
	startStopwatch bool
	startLabel     string
	startDetach    bool
)

func start(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no habit id provided"),
		)
	} else if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	mode := timerlib.ModeCountdown
	if startStopwatch {
		if startDuration != 0 {
			return common.PrintErrWithCmdHelp(
				ctx,
				errors.New("--for and --stopwatch are mutually exclusive"),
			)
		}
		mode = timerlib.ModeStopwatch
	} else if startDuration < time.Second {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("countdown needs a duration of at least one second (see --for)"),
		)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "start", "new_client", err)
		return nil
	}
	d, err := client.StartTimer(entityId, &habitcli.StartTimerOpts{
		Mode:            mode,
		DurationSeconds: int64(startDuration / time.Second),
		Label:           startLabel,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "start", "client-start", err)
		return nil
	}
	fmt.Printf(`
Timer Started
Habit`+"\t\t"+`: %s
Label`+"\t\t"+`: %s
Mode`+"\t\t"+`: %s
`,
		d.EntityId,
		d.Label,
		d.Mode,
	)
	if startDetach || mode == timerlib.ModeStopwatch {
		client.Close()
		return nil
	}
	registerTimerHandlers(client, d.Label, d.DurationSeconds)
	return client.Listen()
}

func pause(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no habit id provided"),
		)
	} else if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "pause", "new_client", err)
		return nil
	}
	defer client.Close()
	s, err := client.PauseTimer(entityId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "pause", "client-pause", err)
		return nil
	}
	fmt.Printf("Paused %s at %s\n", s.EntityId,
		timerlib.FormatClock(time.Duration(s.ElapsedSeconds)*time.Second))
	return nil
}

func resume(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no habit id provided"),
		)
	} else if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "resume", "new_client", err)
		return nil
	}
	defer client.Close()
	s, err := client.ResumeTimer(entityId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "resume", "client-resume", err)
		return nil
	}
	fmt.Printf("Resumed %s at %s\n", s.EntityId,
		timerlib.FormatClock(time.Duration(s.ElapsedSeconds)*time.Second))
	return nil
}

func cancel(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no habit id provided"),
		)
	} else if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "cancel", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.CancelTimer(entityId); err != nil {
		common.PrintRuntimeErr(ctx, "cancel", "client-cancel", err)
		return nil
	}
	fmt.Println("Cancelled timer for", entityId)
	return nil
}
