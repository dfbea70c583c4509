package cmd

import (
	"fmt"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/urfave/cli"
)

func stopAlarm(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop-alarm", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.StopAlarm(); err != nil {
		common.PrintRuntimeErr(ctx, "stop-alarm", "client-stop-alarm", err)
		return nil
	}
	// Stopping a silent alarm succeeds too, so this never errors on a race.
	fmt.Println("Alarm silenced")
	return nil
}
