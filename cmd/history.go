package cmd

import (
	"fmt"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
	"github.com/urfave/cli"
)

var historyFlags = []cli.Flag{
	cli.IntFlag{
		Name:        "limit, n",
		Usage:       "maximum number of records to show",
		Value:       20,
		Destination: &historyLimit,
	},
}

var historyLimit int

func history(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "new_client", err)
		return nil
	}
	defer client.Close()
	h, err := client.History(&habitcli.HistoryOpts{
		EntityId: entityId,
		Limit:    historyLimit,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "get_history", err)
		return nil
	}
	if len(h.Records) == 0 {
		fmt.Println("habit: no completed sessions yet")
		return nil
	}
	txt := "Completed sessions:"
	txt += "\n\n----------------------------------------------------------------------"
	txt += "\n|Num|         Habit         | Elapsed  |  Source |    Completed At    |"
	txt += "\n|---|-----------------------|----------|---------|--------------------|"
	for i, rec := range h.Records {
		name := rec.Label
		if name == "" {
			name = rec.EntityId
		}
		n := len(name)
		switch {
		case n > 21:
			name = name[:18] + "..."
		case n < 21:
			name = common.Beaut(name, 21)
		}
		elapsed := timerlib.FormatClock(time.Duration(rec.ElapsedMs) * time.Millisecond)
		completedAt := time.UnixMilli(rec.CompletedAt).Format("2006-01-02 15:04:05")
		txt += fmt.Sprintf("\n| %d | %s | %s | %s | %s |",
			i+1,
			name,
			common.Beaut(elapsed, 8),
			common.Beaut(rec.Source, 7),
			completedAt,
		)
	}
	txt += "\n----------------------------------------------------------------------"
	fmt.Println(txt)
	return nil
}
