// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Unix implements the kernel entry points on Linux.
//
// The PCI init argument is written to the root resource in a single write, so
// the resource must be a device accepting the argument as one record. Debug
// commands are mapped to reboot(2).
type Unix struct{}

var (
	_ PCIInitializer = Unix{}
	_ DebugCommander = Unix{}
)

// InitPCI implements [PCIInitializer].
func (Unix) InitPCI(resource *os.File, arg []byte) error {
	n, err := resource.Write(arg)
	if err != nil {
		return fmt.Errorf("pci init: %w", err)
	}

	if n != len(arg) {
		return fmt.Errorf("pci init: %w", io.ErrShortWrite)
	}

	return nil
}

// DebugCommand implements [DebugCommander].
func (Unix) DebugCommand(cmd string) error {
	var rebootCmd int

	switch cmd {
	case CmdPoweroff:
		rebootCmd = unix.LINUX_REBOOT_CMD_POWER_OFF
	case CmdReboot:
		rebootCmd = unix.LINUX_REBOOT_CMD_RESTART
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	unix.Sync()

	if err := unix.Reboot(rebootCmd); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}

	return nil
}
