// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kernel provides the kernel entry points the device manager hands
// firmware data and power commands to.
package kernel

import (
	"errors"
	"os"
)

// Debug commands understood by [DebugCommander]s.
const (
	CmdPoweroff = "poweroff"
	CmdReboot   = "reboot"
)

// ErrUnknownCommand is returned for debug commands that are not supported.
var ErrUnknownCommand = errors.New("unknown debug command")

// PCIInitializer initializes the kernel's PCI subsystem.
type PCIInitializer interface {
	// InitPCI passes the firmware computed init argument to the kernel. The
	// resource is the privileged root resource authorizing the call.
	InitPCI(resource *os.File, arg []byte) error
}

// DebugCommander sends low level commands to the kernel, that do not depend on
// any user space service.
type DebugCommander interface {
	DebugCommand(cmd string) error
}
