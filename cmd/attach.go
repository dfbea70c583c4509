package cmd

import (
	"errors"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/urfave/cli"
)

func attach(ctx *cli.Context) (err error) {
	entityId := ctx.Args().First()
	if entityId == "" {
		if ctx.Command.Name == "" {
			return common.Help(ctx)
		}
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no habit id provided"),
		)
	} else if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}
	s, err := client.Attach(entityId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "client-attach", err)
		return nil
	}
	printStatus(s)
	var total int64
	// Countdown sessions render a progress bar sized to the full planned
	// duration; stopwatches fall back to the plain clock.
	if s.DurationSeconds > 0 {
		total = s.DurationSeconds
	}
	registerTimerHandlers(client, s.Label, total)
	return client.Listen()
}
