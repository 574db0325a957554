// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi

import (
	"bytes"
	"fmt"
)

// HardwareIDSize is the fixed width of a [HardwareID] on the wire.
const HardwareIDSize = 8

// NameSize is the fixed width of a [Name] on the wire.
const NameSize = 4

// HardwareID is the fixed width, NUL padded hardware ID (_HID) of a device
// node, like "PNP0A08".
type HardwareID [HardwareIDSize]byte

// NewHardwareID returns the [HardwareID] for the given string. Longer strings
// are truncated.
func NewHardwareID(s string) HardwareID {
	var hid HardwareID

	copy(hid[:], s)

	return hid
}

// HasPrefix compares the first len(prefix) bytes of the ID with prefix.
// Bytes after the prefix are not compared, so the ID may be longer.
func (h HardwareID) HasPrefix(prefix string) bool {
	if len(prefix) > len(h) {
		return false
	}

	return string(h[:len(prefix)]) == prefix
}

func (h HardwareID) String() string {
	return string(bytes.TrimRight(h[:], "\x00"))
}

// Name is the 4 byte name token of a device node, like "PCI0".
type Name [NameSize]byte

// NewName returns the [Name] for the given string. Longer strings are
// truncated.
func NewName(s string) Name {
	var name Name

	copy(name[:], s)

	return name
}

func (n Name) String() string {
	return string(bytes.TrimRight(n[:], "\x00"))
}

// Child describes a direct child of a device node.
type Child struct {
	Name       Name
	HardwareID HardwareID
}

// SState is a target system sleep state for [Handle.SStateTransition].
type SState uint8

// Supported target states.
const (
	SStateS5     SState = 5
	SStateReboot SState = 0x10
)

func (s SState) String() string {
	switch s {
	case SStateS5:
		return "S5"
	case SStateReboot:
		return "reboot"
	default:
		return fmt.Sprintf("SState(%d)", uint8(s))
	}
}

func (s SState) valid() bool {
	return s == SStateS5 || s == SStateReboot
}

// PCIInitArg is the firmware computed PCI initialization argument as received
// from the firmware service.
//
// The content is opaque. Only the offset where the kernel consumable payload
// starts within the raw response is known.
type PCIInitArg struct {
	raw    []byte
	offset int
}

// NewPCIInitArg returns a [PCIInitArg] for the raw response whose payload
// starts at the given offset.
func NewPCIInitArg(raw []byte, offset int) PCIInitArg {
	return PCIInitArg{
		raw:    raw,
		offset: offset,
	}
}

// Len returns the total length of the raw response.
func (a PCIInitArg) Len() int {
	return len(a.raw)
}

// Offset returns the offset of the payload within the raw response.
func (a PCIInitArg) Offset() int {
	return a.offset
}

// Payload returns the kernel consumable part of the response. Its length is
// [PCIInitArg.Len] minus [PCIInitArg.Offset]. [ErrShortPayload] is returned
// if the offset lies beyond the end of the response.
func (a PCIInitArg) Payload() ([]byte, error) {
	if a.offset < 0 || a.offset > len(a.raw) {
		return nil, fmt.Errorf("%w: offset %d, length %d",
			ErrShortPayload, a.offset, len(a.raw))
	}

	return a.raw[a.offset:], nil
}
