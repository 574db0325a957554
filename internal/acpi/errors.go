// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol is returned if a message violates the wire format.
	ErrProtocol = errors.New("protocol error")

	// ErrShortPayload is returned if a payload offset exceeds the message.
	ErrShortPayload = errors.New("payload offset beyond message end")
)

// Status is the status code of a response.
type Status int32

// Status codes.
const (
	StatusOK           Status = 0
	StatusInternal     Status = -1
	StatusNotSupported Status = -2
	StatusInvalidArgs  Status = -10
	StatusBadState     Status = -20
	StatusNotFound     Status = -25
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInternal:
		return "internal error"
	case StatusNotSupported:
		return "not supported"
	case StatusInvalidArgs:
		return "invalid args"
	case StatusBadState:
		return "bad state"
	case StatusNotFound:
		return "not found"
	default:
		return fmt.Sprintf("status %d", int32(s))
	}
}

// StatusError is returned if the firmware service answered a request with a
// status other than [StatusOK]. Service side [Node] implementations may
// return it to answer with a specific status.
type StatusError struct {
	Cmd    Cmd
	Status Status
}

// Error implements the [error] interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cmd, e.Status)
}

// Is implements the [errors.Is] interface.
//
// A [StatusError] matches any other [StatusError] with the same status, or
// any [StatusError] if the other's status is [StatusOK].
func (e *StatusError) Is(other error) bool {
	otherErr, ok := other.(*StatusError)
	if !ok {
		return false
	}

	return otherErr.Status == StatusOK || otherErr.Status == e.Status
}

func statusFrom(err error) Status {
	if err == nil {
		return StatusOK
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}

	return StatusInternal
}
