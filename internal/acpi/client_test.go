// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi_test

import (
	"io"
	"net"
	"testing"

	"github.com/aibor/devmgr/internal/acpi"
	"github.com/aibor/devmgr/internal/acpi/acpitest"
	"github.com/aibor/devmgr/internal/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_ListChildren(t *testing.T) {
	t.Run("children in order", func(t *testing.T) {
		root := acpitest.Serve(t, &acpitest.Node{
			Entries: []acpitest.Entry{
				{Name: "LPC0", HardwareID: "PNP0C0A"},
				{Name: "PCI0", HardwareID: "PNP0A08"},
				{Name: "PWRB", HardwareID: "PNP0C0C"},
			},
		})

		children, err := root.ListChildren()
		require.NoError(t, err)

		expected := []acpi.Child{
			{Name: acpi.NewName("LPC0"), HardwareID: acpi.NewHardwareID("PNP0C0A")},
			{Name: acpi.NewName("PCI0"), HardwareID: acpi.NewHardwareID("PNP0A08")},
			{Name: acpi.NewName("PWRB"), HardwareID: acpi.NewHardwareID("PNP0C0C")},
		}
		assert.Equal(t, expected, children)
	})

	t.Run("no children", func(t *testing.T) {
		root := acpitest.Serve(t, &acpitest.Node{})

		children, err := root.ListChildren()
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("service error", func(t *testing.T) {
		root := acpitest.Serve(t, &acpitest.Node{
			ChildrenErr: assert.AnError,
		})

		_, err := root.ListChildren()
		require.ErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusInternal})
	})
}

func TestHandle_ChildHandle(t *testing.T) {
	pci := &acpitest.Node{PCIArg: []byte{0xde, 0xad, 0xbe, 0xef}}
	root := acpitest.Serve(t, &acpitest.Node{
		Entries: []acpitest.Entry{
			{Name: "PCI0", HardwareID: "PNP0A08", Node: pci},
		},
	})

	t.Run("found", func(t *testing.T) {
		child, err := root.ChildHandle(acpi.NewName("PCI0"))
		require.NoError(t, err)

		defer child.Close()

		arg, err := child.PCIInitArg()
		require.NoError(t, err)

		payload, err := arg.Payload()
		require.NoError(t, err)
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, payload)
		assert.Equal(t, acpi.ResponseHeaderSize+4, arg.Len())
		assert.Equal(t, acpi.ResponseHeaderSize, arg.Offset())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := root.ChildHandle(acpi.NewName("NOPE"))
		require.ErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusNotFound})
	})
}

func TestHandle_PCIInitArg(t *testing.T) {
	t.Run("not supported", func(t *testing.T) {
		root := acpitest.Serve(t, &acpitest.Node{})

		_, err := root.PCIInitArg()
		require.ErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusNotSupported})
	})

	t.Run("service status", func(t *testing.T) {
		root := acpitest.Serve(t, &acpitest.Node{
			PCIArgErr: &acpi.StatusError{Status: acpi.StatusBadState},
		})

		_, err := root.PCIInitArg()
		require.ErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusBadState})
	})
}

func TestHandle_SStateTransition(t *testing.T) {
	t.Run("valid states", func(t *testing.T) {
		node := &acpitest.Node{}
		root := acpitest.Serve(t, node)

		require.NoError(t, root.SStateTransition(acpi.SStateS5))
		require.NoError(t, root.SStateTransition(acpi.SStateReboot))

		expected := []acpi.SState{acpi.SStateS5, acpi.SStateReboot}
		assert.Equal(t, expected, node.Transitions())
	})

	t.Run("invalid state", func(t *testing.T) {
		node := &acpitest.Node{}
		root := acpitest.Serve(t, node)

		err := root.SStateTransition(acpi.SState(3))
		require.ErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusInvalidArgs})
		assert.Empty(t, node.Transitions())
	})
}

func TestHandle_Close(t *testing.T) {
	root := acpitest.Serve(t, &acpitest.Node{})

	require.NoError(t, root.Close())
	require.NoError(t, root.Close(), "second close")

	_, err := root.ListChildren()
	require.ErrorIs(t, err, net.ErrClosed)
}

func TestHandle_PeerClosed(t *testing.T) {
	local, remote, err := channel.NewPair("test")
	require.NoError(t, err)

	conn, err := local.Conn()
	require.NoError(t, err)

	root := acpi.NewHandle(conn)
	defer root.Close()

	require.NoError(t, remote.Close())

	// Depending on timing, either the write fails or the read sees the
	// hang-up.
	_, err = root.ListChildren()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
