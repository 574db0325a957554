// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command devmgr is the device manager run as init process. It launches the
// ACPI firmware service, initializes PCIe and powers off or reboots the system
// on request.
package main

import (
	"context"
	"os"

	"github.com/aibor/devmgr/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(
		context.Background(),
		os.Args[1:],
		cmd.IO{
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
	))
}
