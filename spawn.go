// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import (
	"fmt"
	"os"
	"os/exec"
)

// CapabilityKind tags an entry of the capability table passed to the
// firmware service. The order and tags are part of the service's ABI.
type CapabilityKind int

// Capability kinds.
const (
	// CapLogger is the sink for the service's standard output and error.
	CapLogger CapabilityKind = iota
	// CapUser1 is the first service specific capability. It is passed as
	// file descriptor [CommFD].
	CapUser1
	// CapUser2 is the second service specific capability. It is passed as
	// file descriptor [ReadyFD].
	CapUser2
)

func (k CapabilityKind) String() string {
	switch k {
	case CapLogger:
		return "logger"
	case CapUser1:
		return "user1"
	case CapUser2:
		return "user2"
	default:
		return fmt.Sprintf("CapabilityKind(%d)", int(k))
	}
}

// Capability is a single entry of the capability table.
type Capability struct {
	Kind CapabilityKind
	File *os.File
}

// Process is a handle to a spawned process.
type Process interface {
	// Release releases the handle without waiting for the process.
	Release() error
}

// Spawner spawns processes with a capability table.
//
// The files of the capability table remain owned by the caller. A Spawner
// must not close them.
type Spawner interface {
	Spawn(path string, argv []string, caps []Capability) (Process, error)
}

// ExecSpawner is a [Spawner] that starts processes with [exec.Cmd].
//
// The logger capability is used as stdout and stderr, the user
// capabilities are passed as extra files starting with descriptor 3.
type ExecSpawner struct {
	// Env is the environment of the process. If nil, the environment of the
	// current process is used.
	Env []string
}

var _ Spawner = ExecSpawner{}

// Spawn implements [Spawner]. argv[0] is the name the process is started
// with.
func (s ExecSpawner) Spawn(
	path string,
	argv []string,
	caps []Capability,
) (Process, error) {
	cmd := &exec.Cmd{
		Path: path,
		Args: argv,
		Env:  s.Env,
	}

	for _, capability := range caps {
		switch capability.Kind {
		case CapLogger:
			cmd.Stdout = capability.File
			cmd.Stderr = capability.File
		case CapUser1, CapUser2:
			// Extra files start at descriptor 3, the user capabilities
			// have fixed descriptors.
			idx := int(capability.Kind - CapUser1)
			for len(cmd.ExtraFiles) <= idx {
				cmd.ExtraFiles = append(cmd.ExtraFiles, nil)
			}

			cmd.ExtraFiles[idx] = capability.File
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidCapability, capability.Kind)
		}
	}

	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	return cmd.Process, nil
}
