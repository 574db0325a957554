// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package channel provides ownership tracked bidirectional message channels.
//
// Channels are created in pairs of [Endpoint]s. One endpoint is usually kept
// by the local process while the other one is handed to a spawned process.
// Each endpoint must be closed exactly once, either directly or by
// transferring it into a connection with [Endpoint.Conn].
package channel
