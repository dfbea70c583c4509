package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
)

// BuildArgs carries build-time metadata injected by the linker.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	common.VersionCmdStr = fmt.Sprintf(
		"habit %s-%s (%s_%s)\nBuild: %s=%s",
		bArgs.Version, bArgs.BuildType,
		runtime.GOOS, runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	app := cli.App{
		Name:                  "Habit",
		HelpName:              "habit",
		Usage:                 "A reliable timer and alarm engine for habits.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "habit <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:   "daemon",
				Usage:  "run the habitd timer daemon",
				Action: daemon,
				Flags:  daemonFlags,
			},
			{
				Name:                   "start",
				Aliases:                []string{"s"},
				Usage:                  "start a countdown or stopwatch for a habit",
				Action:                 start,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            StartDescription,
				UseShortOptionHandling: true,
				Flags:                  startFlags,
			},
			{
				Name:               "pause",
				Aliases:            []string{"p"},
				Usage:              "pause a running timer",
				Action:             pause,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        PauseDescription,
			},
			{
				Name:               "resume",
				Aliases:            []string{"r"},
				Usage:              "resume a paused timer",
				Action:             resume,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ResumeDescription,
			},
			{
				Name:               "cancel",
				Aliases:            []string{"x"},
				Usage:              "cancel a habit's timer entirely",
				Action:             cancel,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        CancelDescription,
			},
			{
				Name:               "status",
				Usage:              "show a fresh snapshot of a habit's timer",
				Action:             status,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatusDescription,
			},
			{
				Name:               "list",
				Aliases:            []string{"l"},
				Usage:              "display all in-progress timer sessions",
				Action:             list,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ListDescription,
			},
			{
				Name:               "attach",
				Aliases:            []string{"a"},
				Usage:              "watch a running timer live",
				Action:             attach,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AttachDescription,
			},
			{
				Name:               "stop-alarm",
				Usage:              "silence the ringing alarm",
				Action:             stopAlarm,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StopAlarmDescription,
			},
			{
				Name:                   "history",
				Usage:                  "list completed timer sessions",
				Action:                 history,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            HistoryDescription,
				UseShortOptionHandling: true,
				Flags:                  historyFlags,
			},
			{
				Name:        "reminder",
				Usage:       "manage recurring habit reminders",
				Description: ReminderDescription,
				Subcommands: []cli.Command{
					{
						Name:   "set",
						Usage:  "set a cron reminder for a habit",
						Action: reminderSet,
						Flags:  reminderFlags,
					},
					{
						Name:   "clear",
						Usage:  "clear a habit's reminder",
						Action: reminderClear,
					},
				},
			},
			{
				Name:               "rearm",
				Usage:              "re-run startup reconciliation of persisted sessions",
				Action:             rearm,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        RearmDescription,
			},
			{
				Name:   "stop-daemon",
				Usage:  "gracefully stop the running daemon",
				Action: stopDaemon,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of habit",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:                 status,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	return app.Run(args)
}
