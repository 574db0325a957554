// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package acpi implements the message protocol spoken with the ACPI firmware
// service.
//
// Each message is a single packet on a sequenced packet channel and starts
// with a fixed little endian header. The client side is [Handle], which
// represents one node of the firmware's device tree. The service side is
// [Serve], which answers requests for a [Node] tree.
//
// Request layout:
//
//	len u32 | request id u32 | cmd u8 | reserved [3]u8 | payload
//
// Response layout:
//
//	len u32 | request id u32 | status i32 | cmd u8 | reserved [3]u8 | payload
package acpi
