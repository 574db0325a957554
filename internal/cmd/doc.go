// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for the device manager. It
// handles flag parsing, logging setup and the boot sequence up to the final
// power transition.
package cmd
