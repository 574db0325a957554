// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/aibor/devmgr"
)

const name = "devmgr"

type flags struct {
	Service      devmgr.Config
	RootResource string
	Debug        bool
	Version      bool
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := &flags{
		Service: devmgr.DefaultConfig(),
	}

	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.StringVar(
		&flags.Service.ServicePath,
		"acpisvc",
		flags.Service.ServicePath,
		"path of the ACPI firmware service executable",
	)

	flagSet.DurationVar(
		&flags.Service.ReadyTimeout,
		"ready-timeout",
		flags.Service.ReadyTimeout,
		"time to wait for the ACPI firmware service to signal readiness",
	)

	flagSet.StringVar(
		&flags.RootResource,
		"root-resource",
		flags.RootResource,
		"path of the root resource passed to the kernel for PCIe init "+
			"(PCIe init is skipped if empty)",
	)

	flagSet.BoolVar(
		&flags.Debug,
		"debug",
		flags.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&flags.Version,
		"version",
		flags.Version,
		"show version and exit",
	)

	err := flagSet.Parse(args)
	if err != nil {
		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	if flagSet.NArg() > 0 {
		return nil, fail(flagSet, "unexpected positional arguments", nil)
	}

	if flags.Service.ServicePath == "" {
		return nil, fail(flagSet, "no service path given (use -acpisvc)", nil)
	}

	if flags.Service.ReadyTimeout <= 0 {
		err := fmt.Errorf("%s", flags.Service.ReadyTimeout)
		return nil, fail(flagSet, "ready timeout must be positive", err)
	}

	return flags, nil
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
