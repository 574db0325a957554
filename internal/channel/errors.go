// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package channel

import "errors"

var (
	// ErrClosed is returned if an endpoint is used after it has been closed
	// or transferred.
	ErrClosed = errors.New("endpoint already closed")

	// ErrWaitTimeout is returned if the peer did not close its endpoint in
	// time.
	ErrWaitTimeout = errors.New("wait for peer closed timed out")
)
