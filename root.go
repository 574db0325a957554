// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import (
	"sync/atomic"

	"github.com/aibor/devmgr/internal/acpi"
)

// Root is the client handle to the root node of the firmware service. It is
// only obtainable from a successful [Launcher.Launch].
//
// Root may be used by multiple goroutines.
type Root struct {
	handle *acpi.Handle
}

// Close closes the handle. The firmware service is not stopped.
func (r *Root) Close() error {
	if r == nil || r.handle == nil {
		return ErrRootUninitialized
	}

	return r.handle.Close() //nolint:wrapcheck
}

func (r *Root) acpiHandle() (*acpi.Handle, error) {
	if r == nil || r.handle == nil {
		return nil, ErrRootUninitialized
	}

	return r.handle, nil
}

// DefaultRegistry is the process wide [Registry] used by [LaunchService].
var DefaultRegistry = new(Registry)

// Registry holds a [Root]. It is set at most once and never changes
// afterwards.
type Registry struct {
	root atomic.Pointer[Root]
}

// Initialize sets the [Root]. It returns [ErrRootInitialized] if it has been
// set before.
func (r *Registry) Initialize(root *Root) error {
	if root == nil || root.handle == nil {
		return ErrRootUninitialized
	}

	if !r.root.CompareAndSwap(nil, root) {
		return ErrRootInitialized
	}

	return nil
}

// Root returns the [Root]. It returns [ErrRootUninitialized] if it has not
// been set yet.
func (r *Registry) Root() (*Root, error) {
	root := r.root.Load()
	if root == nil {
		return nil, ErrRootUninitialized
	}

	return root, nil
}

func (r *Registry) initialized() bool {
	return r.root.Load() != nil
}
