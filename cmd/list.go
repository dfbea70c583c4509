package cmd

import (
	"fmt"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
	"github.com/urfave/cli"
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := habitcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()
	l, err := client.List()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(l.Sessions) == 0 {
		fmt.Println("habit: no active timers")
		return nil
	}
	txt := "Here are your timers:"
	txt += "\n\n--------------------------------------------------------------"
	txt += "\n|Num|         Habit         |   Mode    |  State  | Elapsed  |"
	txt += "\n|---|-----------------------|-----------|---------|----------|"
	for i, s := range l.Sessions {
		name := s.Label
		if name == "" {
			name = s.EntityId
		}
		n := len(name)
		switch {
		case n > 21:
			name = name[:18] + "..."
		case n < 21:
			name = common.Beaut(name, 21)
		}
		elapsed := timerlib.FormatClock(time.Duration(s.ElapsedSeconds) * time.Second)
		txt += fmt.Sprintf("\n| %d | %s | %s | %s | %s |",
			i+1,
			name,
			common.Beaut(string(s.Mode), 9),
			common.Beaut(string(s.State), 7),
			common.Beaut(elapsed, 8),
		)
	}
	txt += "\n--------------------------------------------------------------"
	fmt.Println(txt)
	return nil
}
