// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import "errors"

var (
	// ErrResourceCreation is returned if a channel or the log sink could not
	// be created.
	ErrResourceCreation = errors.New("resource creation failed")

	// ErrLaunch is returned if the firmware service could not be spawned.
	ErrLaunch = errors.New("launch failed")

	// ErrHandshakeTimeout is returned if the firmware service did not signal
	// readiness in time.
	ErrHandshakeTimeout = errors.New("handshake timed out")

	// ErrHandshakeWait is returned if waiting for the ready signal failed.
	ErrHandshakeWait = errors.New("handshake wait failed")

	// ErrQuery is returned if a request to the firmware service failed.
	ErrQuery = errors.New("firmware query failed")

	// ErrNotFound is returned if no PCI root complex is present.
	ErrNotFound = errors.New("pci root complex not found")

	// ErrKernelInit is returned if the kernel rejected the PCI init argument.
	ErrKernelInit = errors.New("kernel pci init failed")

	// ErrRootUninitialized is returned if the firmware service root is used
	// before the handshake completed.
	ErrRootUninitialized = errors.New("firmware service root not initialized")

	// ErrRootInitialized is returned if the firmware service root is
	// initialized more than once.
	ErrRootInitialized = errors.New("firmware service root already initialized")

	// ErrInvalidCapability is returned for capability table entries a
	// [Spawner] can not pass.
	ErrInvalidCapability = errors.New("invalid capability")
)
