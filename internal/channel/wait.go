// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package channel

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// WaitPeerClosed blocks until the remote endpoint of the channel is closed or
// the timeout elapses. In the latter case [ErrWaitTimeout] is returned.
//
// Data written by the peer is ignored. Only the hang-up is waited for.
func (e *Endpoint) WaitPeerClosed(timeout time.Duration) error {
	if e.Closed() {
		return fmt.Errorf("wait %s: %w", e.name, ErrClosed)
	}

	rawConn, err := e.file.SyscallConn()
	if err != nil {
		return fmt.Errorf("wait %s: %w", e.name, err)
	}

	var pollErr error

	err = rawConn.Control(func(fd uintptr) {
		pollErr = pollPeerClosed(int(fd), timeout)
	})
	if err != nil {
		return fmt.Errorf("wait %s: %w", e.name, err)
	}

	if pollErr != nil {
		return fmt.Errorf("wait %s: %w", e.name, pollErr)
	}

	return nil
}

func pollPeerClosed(fd int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}

		// POLLHUP and POLLERR are always reported, no need to request them.
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLRDHUP}}

		// Round up so sub-millisecond remainders do not spin.
		timeoutMs := int((remaining + time.Millisecond - 1) / time.Millisecond)

		n, err := unix.Poll(fds, timeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}

			return fmt.Errorf("poll: %w", err)
		}

		if n == 0 {
			if time.Now().Before(deadline) {
				continue
			}

			return ErrWaitTimeout
		}

		revents := fds[0].Revents

		switch {
		case revents&(unix.POLLHUP|unix.POLLRDHUP) != 0:
			return nil
		case revents&unix.POLLNVAL != 0:
			return fmt.Errorf("poll: %w", unix.EBADF)
		case revents&unix.POLLERR != 0:
			return fmt.Errorf("poll: %w", unix.EIO)
		}
	}
}
