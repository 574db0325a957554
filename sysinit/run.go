// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"log/slog"
	"os"
)

// Func is a function run by [Run].
type Func func(*State) error

// ShutdownFunc is called by [Run] with the requested power transition once
// all [Func]s ran. It is not expected to return.
type ShutdownFunc func(Transition)

// Run is the entry point of the init process.
//
// It runs the given functions and hands the system to the shutdown function
// afterwards. It must be run as PID 1, otherwise it panics immediately.
//
// The given [Func]s are run in the order given. The first error stops the
// sequence. They must not terminate the program (e.g. by [os.Exit]). Panics
// are recovered from. Registered cleanup functions run in any case before the
// shutdown function is called.
//
// A typical device manager sequence would be:
//
//	Run(
//		shutdown,
//		[WithMountPoints]([SystemMountPoints]()),
//		[WithReaper](),
//		[WithSymlinks]([DevSymlinks]()),
//		[WithInterfaceUp]("lo"),
//		func(state *State) error {
//			// Launch services, initialize devices, wait for the
//			// power transition request.
//		},
//	)
func Run(shutdown ShutdownFunc, funcs ...Func) {
	if !IsPidOne() {
		panic(ErrNotPidOne)
	}

	transition := run(funcs)

	shutdown(transition)
}

func run(funcs []Func) Transition {
	state := new(State)

	if err := runFuncs(state, funcs); err != nil {
		slog.Error("boot sequence failed", slog.Any("error", err))
	}

	state.doCleanup()

	return state.Transition()
}

func runFuncs(state *State, funcs []Func) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("%w: %w", ErrPanic, recoveredErr)
		} else {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	for _, fn := range funcs {
		if err = fn(state); err != nil {
			return err
		}
	}

	return nil
}

// IsPidOne returns true if the running process has PID 1.
func IsPidOne() bool {
	return os.Getpid() == 1
}
