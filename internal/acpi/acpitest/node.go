// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package acpitest provides an in-memory device tree for serving the ACPI
// firmware service protocol in tests.
package acpitest

import (
	"slices"
	"sync"

	"github.com/aibor/devmgr/internal/acpi"
)

// Entry is a child entry of a [Node].
type Entry struct {
	Name       string
	HardwareID string
	Node       *Node
}

// Node is an [acpi.Node] with static content that records the requests it
// received.
type Node struct {
	Entries []Entry

	// PCIArg is returned for PCI init argument requests. If nil, the request
	// is answered with [acpi.StatusNotSupported].
	PCIArg []byte

	// Errors returned by the respective requests if set.
	ChildrenErr   error
	PCIArgErr     error
	TransitionErr error

	mu          sync.Mutex
	opened      []string
	transitions []acpi.SState
}

var _ acpi.Node = (*Node)(nil)

// Children implements [acpi.Node].
func (n *Node) Children() ([]acpi.Child, error) {
	if n.ChildrenErr != nil {
		return nil, n.ChildrenErr
	}

	children := make([]acpi.Child, 0, len(n.Entries))

	for _, entry := range n.Entries {
		children = append(children, acpi.Child{
			Name:       acpi.NewName(entry.Name),
			HardwareID: acpi.NewHardwareID(entry.HardwareID),
		})
	}

	return children, nil
}

// Child implements [acpi.Node].
func (n *Node) Child(name acpi.Name) (acpi.Node, error) {
	n.mu.Lock()
	n.opened = append(n.opened, name.String())
	n.mu.Unlock()

	for _, entry := range n.Entries {
		if acpi.NewName(entry.Name) != name {
			continue
		}

		if entry.Node == nil {
			return new(Node), nil
		}

		return entry.Node, nil
	}

	return nil, &acpi.StatusError{
		Cmd:    acpi.CmdGetChildHandle,
		Status: acpi.StatusNotFound,
	}
}

// PCIInitArg implements [acpi.Node].
func (n *Node) PCIInitArg() ([]byte, error) {
	if n.PCIArgErr != nil {
		return nil, n.PCIArgErr
	}

	if n.PCIArg == nil {
		return nil, &acpi.StatusError{
			Cmd:    acpi.CmdGetPCIInitArg,
			Status: acpi.StatusNotSupported,
		}
	}

	return n.PCIArg, nil
}

// SStateTransition implements [acpi.Node].
func (n *Node) SStateTransition(state acpi.SState) error {
	n.mu.Lock()
	n.transitions = append(n.transitions, state)
	n.mu.Unlock()

	return n.TransitionErr
}

// Opened returns the names of all children a handle was requested for.
func (n *Node) Opened() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return slices.Clone(n.opened)
}

// Transitions returns all requested state transitions.
func (n *Node) Transitions() []acpi.SState {
	n.mu.Lock()
	defer n.mu.Unlock()

	return slices.Clone(n.transitions)
}
