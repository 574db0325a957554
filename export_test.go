// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import "github.com/aibor/devmgr/internal/acpi"

// NewTestRoot returns a [Root] for the given handle, bypassing the launch.
func NewTestRoot(handle *acpi.Handle) *Root {
	return &Root{handle: handle}
}
