// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aibor/devmgr/internal/acpi"
	"github.com/aibor/devmgr/internal/kernel"
)

// PCIRootHardwareID is the hardware ID of a PCI Express root complex.
//
// Only its 7 bytes are compared with the 8 byte wide hardware ID field, so
// IDs that share the prefix and carry a trailing byte match as well.
const PCIRootHardwareID = "PNP0A08"

// InitPCIe looks up the PCI root complex, requests its init argument from the
// firmware service and passes it to the kernel together with the given root
// resource.
//
// There is no partial success. The first error aborts the initialization.
// [ErrNotFound] is returned if the root node has no PCI root complex child.
// Kernel errors are wrapped in [ErrKernelInit], firmware errors in [ErrQuery].
func (r *Root) InitPCIe(pci kernel.PCIInitializer, resource *os.File) error {
	root, err := r.acpiHandle()
	if err != nil {
		return err
	}

	name, err := findPCIRoot(root)
	if err != nil {
		return err
	}

	arg, err := pciInitArg(root, name)
	if err != nil {
		return err
	}

	payload, err := arg.Payload()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}

	slog.Debug("init pcie",
		slog.String("node", name.String()),
		slog.Int("length", len(payload)))

	err = pci.InitPCI(resource, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKernelInit, err)
	}

	return nil
}

// findPCIRoot returns the name of the first child of the root node with the
// PCI root complex hardware ID.
func findPCIRoot(root *acpi.Handle) (acpi.Name, error) {
	children, err := root.ListChildren()
	if err != nil {
		return acpi.Name{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	for _, child := range children {
		if child.HardwareID.HasPrefix(PCIRootHardwareID) {
			return child.Name, nil
		}
	}

	return acpi.Name{}, ErrNotFound
}

// pciInitArg requests the PCI init argument from the named child. The child
// handle is only used for this single request.
func pciInitArg(root *acpi.Handle, name acpi.Name) (acpi.PCIInitArg, error) {
	child, err := root.ChildHandle(name)
	if err != nil {
		return acpi.PCIInitArg{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	defer child.Close()

	arg, err := child.PCIInitArg()
	if err != nil {
		return acpi.PCIInitArg{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return arg, nil
}

// InitPCIe runs [Root.InitPCIe] with the [Root] of [DefaultRegistry].
func InitPCIe(pci kernel.PCIInitializer, resource *os.File) error {
	root, err := DefaultRegistry.Root()
	if err != nil {
		return err
	}

	return root.InitPCIe(pci, resource)
}
