// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import (
	"os"

	"github.com/aibor/devmgr/internal/channel"
)

// File descriptors of the user capabilities in the firmware service process.
const (
	CommFD  = 3
	ReadyFD = 4
)

// ServiceEndpoints returns the endpoints of the comm and ready channel as
// passed to the firmware service process by [ExecSpawner].
//
// It is meant to be called by the firmware service. The service signals that
// it is ready by closing the ready endpoint.
func ServiceEndpoints() (*channel.Endpoint, *channel.Endpoint) {
	comm := channel.NewEndpoint(os.NewFile(CommFD, "acpi-comm"))
	ready := channel.NewEndpoint(os.NewFile(ReadyFD, "acpi-ready"))

	return comm, ready
}
