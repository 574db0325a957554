// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysinit provides the boot sequence of the device manager running as
// init process.
//
// It sets up system virtual file system mount points and the loopback
// interface, runs the device manager's setup functions in order and hands the
// final power transition to a shutdown function once they are done.
package sysinit
