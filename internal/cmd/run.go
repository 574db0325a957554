// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/aibor/devmgr"
	"github.com/aibor/devmgr/internal/kernel"
	"github.com/aibor/devmgr/sysinit"
)

// Set on build.
var version = "dev"

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newManager(flags *flags, signals <-chan os.Signal) *manager {
	return &manager{
		launch: func() (*devmgr.Root, error) {
			return devmgr.LaunchService(flags.Service)
		},
		kernel:       kernel.Unix{},
		rootResource: flags.RootResource,
		signals:      signals,
	}
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

// Run is the main entry point for the CLI command.
//
// It only returns if the arguments are invalid, version information is
// requested or the process does not run as PID 1. Otherwise, the system is
// powered off or rebooted once the boot sequence is done.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "%s: %s (%s)\n", name, version, buildInfo.GoVersion)

		return 0
	}

	if !sysinit.IsPidOne() {
		slog.Error(sysinit.ErrNotPidOne.Error())
		return -1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, transitionSignals...)

	defer signal.Stop(signals)

	mgr := newManager(flags, signals)

	sysinit.Run(
		mgr.shutdown,
		sysinit.WithMountPoints(sysinit.SystemMountPoints()),
		sysinit.WithReaper(),
		sysinit.WithSymlinks(sysinit.DevSymlinks()),
		sysinit.WithEnv(sysinit.DefaultEnv()),
		sysinit.WithInterfaceUp(sysinit.LoopbackInterface),
		mgr.start(ctx),
	)

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
