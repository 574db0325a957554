// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Reap collects all terminated child processes without blocking and returns
// how many were collected.
//
// It waits for any child, so it must not be used while other code waits for
// specific children, e.g. by [exec.Cmd.Wait].
func Reap() (int, error) {
	var count int

	for {
		var status unix.WaitStatus

		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)

		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			return count, nil
		case err != nil:
			return count, fmt.Errorf("wait4: %w", err)
		case pid <= 0:
			return count, nil
		}

		slog.Debug("reaped process",
			slog.Int("pid", pid),
			slog.Int("exit_status", status.ExitStatus()))

		count++
	}
}

// WithReaper returns a setup [Func] that reaps terminated child processes on
// every SIGCHLD until cleanup. As PID 1, this includes all orphaned processes
// of the system.
func WithReaper() Func {
	return func(state *State) error {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, unix.SIGCHLD)

		done := make(chan struct{})
		stopped := make(chan struct{})

		go func() {
			defer close(stopped)

			for {
				select {
				case <-signals:
					if _, err := Reap(); err != nil {
						slog.Warn("reap failed", slog.Any("error", err))
					}
				case <-done:
					return
				}
			}
		}()

		state.Cleanup(func() error {
			signal.Stop(signals)
			close(done)
			<-stopped

			return nil
		})

		// Children may have terminated before the handler was installed.
		_, err := Reap()

		return err
	}
}
