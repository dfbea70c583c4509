package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omaryagoub77/Habit-Tracker-sub000/cmd/common"
	daemonlib "github.com/omaryagoub77/Habit-Tracker-sub000/internal/daemon"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/logger"
	"github.com/omaryagoub77/Habit-Tracker-sub000/pkg/timerlib"
	"github.com/urfave/cli"
)

var daemonFlags = []cli.Flag{
	cli.IntFlag{
		Name:        "port",
		Usage:       "tcp port used when the unix socket is unavailable",
		EnvVar:      "HABITD_TCP_PORT",
		Value:       DEF_PORT,
		Destination: &daemonPort,
	},
	cli.StringFlag{
		Name:        "alarm-sound",
		Usage:       "path to the alarm sound asset (empty disables sound)",
		EnvVar:      "HABITD_ALARM_SOUND",
		Destination: &alarmSound,
	},
	cli.StringFlag{
		Name:        "alarm-player",
		Usage:       "external command used to play the alarm asset",
		EnvVar:      "HABITD_ALARM_PLAYER",
		Value:       "paplay",
		Destination: &alarmPlayer,
	},
	cli.DurationFlag{
		Name:        "alarm-timeout",
		Usage:       "auto-stop an unacknowledged alarm after this duration",
		Value:       DEF_ALARM_TIMEOUT,
		Destination: &alarmTimeout,
	},
	cli.StringFlag{
		Name:        "rpc-secret",
		Usage:       "bearer token for the json-rpc endpoint (empty rejects all rpc requests)",
		EnvVar:      "HABITD_RPC_SECRET",
		Destination: &rpcSecret,
	},
	cli.BoolFlag{
		Name:        "rpc-listen-all",
		Usage:       "bind the json-rpc endpoint on all interfaces instead of loopback",
		Destination: &rpcListenAll,
	},
}

var (
	daemonPort   int
	alarmSound   string
	alarmPlayer  string
	alarmTimeout time.Duration
	rpcSecret    string
	rpcListenAll bool
)

func daemon(ctx *cli.Context) error {
	l := logger.NewStandardLogger(log.Default())

	if pid, err := ReadPidFile(); err == nil && processAlive(pid) {
		common.PrintRuntimeErr(ctx, "daemon", "init", errAlreadyRunning(pid))
		return nil
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := initDaemonComponents(rootCtx, l, &DaemonOptions{
		Port:         daemonPort,
		AlarmSound:   alarmSound,
		AlarmPlayer:  alarmPlayer,
		AlarmTimeout: alarmTimeout,
		RPCSecret:    rpcSecret,
		RPCListenAll: rpcListenAll,
		StopDaemon:   cancel,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}
	defer comps.Close()

	if err := WritePidFile(); err != nil {
		l.Warning("Could not write pid file: %v", err)
	}
	defer RemovePidFile()

	runner := daemonlib.New(
		&daemonlib.Config{
			Port:            daemonPort,
			ConfigDir:       timerlib.ConfigDir,
			ShutdownTimeout: 10 * time.Second,
		},
		&daemonlib.Dependencies{
			RunFunc: comps.Server.Start,
			ShutdownFunc: func() error {
				comps.Close()
				return nil
			},
		},
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sig:
			l.Info("Received %s, shutting down", s)
			if err := runner.Shutdown(); err != nil && err != daemonlib.ErrNotRunning {
				l.Warning("Shutdown: %v", err)
			}
			cancel()
		case <-rootCtx.Done():
		}
	}()

	if err := runner.Start(rootCtx); err != nil && rootCtx.Err() == nil && err != context.Canceled {
		common.PrintRuntimeErr(ctx, "daemon", "serve", err)
	}
	return nil
}
