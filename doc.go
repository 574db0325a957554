// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package devmgr provides the device manager's boot time interaction with the
// ACPI firmware service.
//
// The firmware service is launched by a [Launcher]. The launcher hands the
// service two channels: one for communication and one only used for
// synchronization. The service closes its end of the latter once it is
// initialized. After this handshake, the launcher returns a [Root], which is
// the client handle to the root node of the firmware's device tree.
//
// The [Root] is required for all further operations:
//
//	root, err := devmgr.LaunchService(devmgr.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	err = root.InitPCIe(kernel.Unix{}, rootResource)
//	if err != nil {
//		return err
//	}
//
//	// Eventually.
//	root.RequestPoweroff(kernel.Unix{})
package devmgr
