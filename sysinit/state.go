// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"log/slog"
	"slices"
)

// Transition is the power transition the system does after [Run] completed.
type Transition int

// Power transitions.
const (
	TransitionPoweroff Transition = iota
	TransitionReboot
)

func (t Transition) String() string {
	if t == TransitionReboot {
		return "reboot"
	}

	return "poweroff"
}

// CleanupFunc is run when [Run] finished running all [Func]s.
type CleanupFunc func() error

// State is shared by all [Func]s run by [Run].
type State struct {
	cleanupFns []CleanupFunc
	transition Transition
}

// Cleanup registers a function that is run once all [Func]s ran. Cleanup
// functions run in reverse order of registration.
func (s *State) Cleanup(fn CleanupFunc) {
	s.cleanupFns = append(s.cleanupFns, fn)
}

// SetTransition sets the power transition done at the end.
func (s *State) SetTransition(transition Transition) {
	s.transition = transition
}

// Transition returns the power transition done at the end. It is
// [TransitionPoweroff] unless set otherwise.
func (s *State) Transition() Transition {
	return s.transition
}

func (s *State) doCleanup() {
	slices.Reverse(s.cleanupFns)

	for _, fn := range s.cleanupFns {
		if err := fn(); err != nil {
			slog.Error("cleanup failed", slog.Any("error", err))
		}
	}

	s.cleanupFns = nil
}
