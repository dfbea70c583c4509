package cmd

import (
	"fmt"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/urfave/cli"
)

func rearm(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "rearm", "new_client", err)
		return nil
	}
	defer client.Close()
	r, err := client.Rearm()
	if err != nil {
		common.PrintRuntimeErr(ctx, "rearm", "client-rearm", err)
		return nil
	}
	fmt.Printf("Rearmed %d session(s), %d completed while the daemon was down\n",
		r.Rearmed, r.Completed)
	return nil
}

func stopDaemon(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop-daemon", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.StopDaemon(); err != nil {
		common.PrintRuntimeErr(ctx, "stop-daemon", "client-stop-daemon", err)
		return nil
	}
	fmt.Println("Daemon stopping")
	return nil
}
