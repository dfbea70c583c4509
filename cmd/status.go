package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	commonTypes "github.com/omaryagoub77/Habit-Tracker-sub000/common"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/habitcli"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
	"github.com/urfave/cli"
)

func status(ctx *cli.Context) error {
	entityId := ctx.Args().First()
	if entityId == "" {
		if ctx.Command.Name == "" {
			// bare "habit" invocation falls through to list
			return list(ctx)
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
		common.PrintRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	s, err := client.Status(entityId)
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "get_status", err)
		return nil
	}
	printStatus(s)
	return nil
}

func printStatus(s *commonTypes.StatusResponse) {
	elapsed := timerlib.FormatClock(time.Duration(s.ElapsedSeconds) * time.Second)
	txt := fmt.Sprintf(`
Timer Status
Habit`+"\t\t"+`: %s
Label`+"\t\t"+`: %s
Mode`+"\t\t"+`: %s
State`+"\t\t"+`: %s
Elapsed`+"\t"+`: %s
`,
		s.EntityId,
		s.Label,
		s.Mode,
		s.State,
		elapsed,
	)
	if s.Mode == timerlib.ModeCountdown {
		txt += fmt.Sprintf("Remaining\t: %s\n",
			timerlib.FormatClock(time.Duration(s.RemainingSeconds)*time.Second))
	}
	if s.Alarm != nil {
		txt += "Alarm\t\t: ringing\n"
	}
	fmt.Println(txt)
}
