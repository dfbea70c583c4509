package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/urfave/cli"
)

var reminderFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "label, l",
		Usage:       "display label used when the reminder rings",
		Destination: &reminderLabel,
	},
}

var reminderLabel string

func reminderSet(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no habit id provided"),
		)
	} else if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cronExpr := ctx.Args().Get(1)
	if cronExpr == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no cron expression provided (e.g. '0 7 * * *')"),
		)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "reminder", "new_client", err)
		return nil
	}
	defer client.Close()
	r, err := client.SetReminder(entityId, cronExpr, reminderLabel)
	if err != nil {
		common.PrintRuntimeErr(ctx, "reminder", "set_reminder", err)
		return nil
	}
	next := time.UnixMilli(r.NextRing)
	fmt.Printf("Reminder set for %s, next ring at %s\n",
		r.EntityId, next.Format("Mon 2006-01-02 15:04"))
	return nil
}

func reminderClear(ctx *cli.Context) error {
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
		common.PrintRuntimeErr(ctx, "reminder", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.ClearReminder(entityId); err != nil {
		common.PrintRuntimeErr(ctx, "reminder", "clear_reminder", err)
		return nil
	}
	fmt.Println("Reminder cleared for", entityId)
	return nil
}
