// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import (
	"log/slog"

	"github.com/aibor/devmgr/internal/acpi"
	"github.com/aibor/devmgr/internal/kernel"
)

// RequestPoweroff asks the firmware service to transition into S5 and then
// sends the poweroff debug command to the kernel.
//
// The debug command is sent in any case, even if the firmware service failed
// or r is nil. Usually, the function does not return.
func (r *Root) RequestPoweroff(debug kernel.DebugCommander) {
	r.requestTransition(acpi.SStateS5, kernel.CmdPoweroff, debug)
}

// RequestReboot asks the firmware service to reboot the system and then sends
// the reboot debug command to the kernel.
//
// The debug command is sent in any case, even if the firmware service failed
// or r is nil. Usually, the function does not return.
func (r *Root) RequestReboot(debug kernel.DebugCommander) {
	r.requestTransition(acpi.SStateReboot, kernel.CmdReboot, debug)
}

func (r *Root) requestTransition(
	state acpi.SState,
	cmd string,
	debug kernel.DebugCommander,
) {
	root, err := r.acpiHandle()
	if err == nil {
		err = root.SStateTransition(state)
	}

	if err != nil {
		slog.Warn("firmware state transition failed",
			slog.String("state", state.String()),
			slog.Any("error", err))
	}

	err = debug.DebugCommand(cmd)
	if err != nil {
		slog.Error("debug command failed",
			slog.String("cmd", cmd),
			slog.Any("error", err))
	}
}

// RequestPoweroff runs [Root.RequestPoweroff] with the [Root] of
// [DefaultRegistry]. If it is not initialized, only the debug command is
// sent.
func RequestPoweroff(debug kernel.DebugCommander) {
	root, _ := DefaultRegistry.Root()
	root.RequestPoweroff(debug)
}

// RequestReboot runs [Root.RequestReboot] with the [Root] of
// [DefaultRegistry]. If it is not initialized, only the debug command is
// sent.
func RequestReboot(debug kernel.DebugCommander) {
	root, _ := DefaultRegistry.Root()
	root.RequestReboot(debug)
}
